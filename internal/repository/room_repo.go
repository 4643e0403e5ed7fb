package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftboard/backend/internal/model"
	pkgerrors "shiftboard/backend/pkg/errors"
)

// RoomRepository 房间数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	ListByTeam(ctx context.Context, teamID string) ([]model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	// Delete 删除房间：清理开放时段、置空班次上的引用（同一事务）
	Delete(ctx context.Context, id string, deletedBy string) error

	// ReplaceOpenHours 整套替换房间开放时段
	ReplaceOpenHours(ctx context.Context, roomID string, slots []model.RoomAvailability) error
	ListOpenHours(ctx context.Context, roomID string) ([]model.RoomAvailability, error)
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) ListByTeam(ctx context.Context, teamID string) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	oldVersion := room.Version
	result := r.db.WithContext(ctx).
		Model(room).
		Where("room_id = ? AND version = ?", room.RoomID, oldVersion).
		Updates(map[string]interface{}{
			"name":       room.Name,
			"capacity":   room.Capacity,
			"updated_by": room.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	room.Version = oldVersion + 1
	return nil
}

func (r *roomRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("room_id = ?", id).
			Delete(&model.RoomAvailability{}).Error; err != nil {
			return err
		}
		// 引用置空：班次保留，只摘掉房间绑定
		if err := tx.Model(&model.Shift{}).
			Where("room_id = ?", id).
			Update("room_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.TeamEvent{}).
			Where("room_id = ?", id).
			Update("room_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Room{}).
			Where("room_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("room_id = ?", id).Delete(&model.Room{}).Error
	})
}

func (r *roomRepo) ReplaceOpenHours(ctx context.Context, roomID string, slots []model.RoomAvailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("room_id = ?", roomID).
			Delete(&model.RoomAvailability{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}

func (r *roomRepo) ListOpenHours(ctx context.Context, roomID string) ([]model.RoomAvailability, error) {
	var slots []model.RoomAvailability
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("day ASC, start_min ASC").
		Find(&slots).Error
	return slots, err
}
