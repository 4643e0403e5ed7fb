package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftboard/backend/internal/model"
	pkgerrors "shiftboard/backend/pkg/errors"
)

// ShiftRepository 排班数据访问接口
type ShiftRepository interface {
	// ReplaceForMember 整套替换某成员在某团队的班次。
	// 事务内先对涉及的房间行加锁，再删旧建新；每条绑定房间的新班次
	// 入库前统计同房间同日的重叠班次数，达到容量上限则整单回滚，
	// 返回 *pkgerrors.RoomCapacityError。
	ReplaceForMember(ctx context.Context, teamID, userID string, shifts []model.Shift) error

	// CountOverlapping 统计某房间某日与给定区间重叠的班次数。
	// excludeUserID 非空时排除该成员自己的班次（用于替换前的预检）。
	CountOverlapping(ctx context.Context, roomID string, day model.Day, startMin, endMin int, excludeUserID string) (int, error)

	ListByTeam(ctx context.Context, teamID string) ([]model.Shift, error)
	ListByTeamAndUser(ctx context.Context, teamID, userID string) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) ReplaceForMember(ctx context.Context, teamID, userID string, shifts []model.Shift) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 收集涉及的房间并加行锁，串行化同房间的并发替换
		roomIDs := make([]string, 0, len(shifts))
		seen := make(map[string]struct{}, len(shifts))
		for _, s := range shifts {
			if s.RoomID == nil {
				continue
			}
			if _, ok := seen[*s.RoomID]; ok {
				continue
			}
			seen[*s.RoomID] = struct{}{}
			roomIDs = append(roomIDs, *s.RoomID)
		}

		rooms := make(map[string]*model.Room, len(roomIDs))
		if len(roomIDs) > 0 {
			var locked []model.Room
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("room_id IN ?", roomIDs).
				Find(&locked).Error; err != nil {
				return err
			}
			for i := range locked {
				rooms[locked[i].RoomID] = &locked[i]
			}
		}

		if err := tx.Unscoped().
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&model.Shift{}).Error; err != nil {
			return err
		}

		for i := range shifts {
			s := &shifts[i]
			if s.RoomID != nil {
				room, ok := rooms[*s.RoomID]
				if !ok {
					return gorm.ErrRecordNotFound
				}
				var n int64
				err := tx.Model(&model.Shift{}).
					Where("room_id = ? AND day = ? AND start_min < ? AND end_min > ?",
						*s.RoomID, s.Day, s.EndMin, s.StartMin).
					Count(&n).Error
				if err != nil {
					return err
				}
				if int(n) >= room.Capacity {
					return &pkgerrors.RoomCapacityError{
						RoomName: room.Name,
						Day:      string(s.Day),
						StartMin: s.StartMin,
						EndMin:   s.EndMin,
						Capacity: room.Capacity,
					}
				}
			}
			if err := tx.Create(s).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *shiftRepo) CountOverlapping(ctx context.Context, roomID string, day model.Day, startMin, endMin int, excludeUserID string) (int, error) {
	query := r.db.WithContext(ctx).Model(&model.Shift{}).
		Where("room_id = ? AND day = ? AND start_min < ? AND end_min > ?",
			roomID, day, endMin, startMin)
	if excludeUserID != "" {
		query = query.Where("user_id <> ?", excludeUserID)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *shiftRepo) ListByTeam(ctx context.Context, teamID string) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("user_id ASC, day ASC, start_min ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) ListByTeamAndUser(ctx context.Context, teamID, userID string) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Order("day ASC, start_min ASC").
		Find(&shifts).Error
	return shifts, err
}
