package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/model"
	"shiftboard/backend/internal/repository"
	"shiftboard/backend/pkg/clock"
)

// ── 排班模块业务错误 ──

var (
	ErrWorkerNotMember = errors.New("排班对象不是该团队成员")
	ErrInvalidDay      = errors.New("无效的星期符号")
)

// ScheduleService 排班业务接口。
// 排班提交是整套替换：一次提交替换该成员在团队内的全部班次，
// 容量校验与删旧建新在仓储层同一事务内完成。
type ScheduleService interface {
	Replace(ctx context.Context, teamID string, req *dto.ReplaceScheduleRequest, callerID string) (*dto.ReplaceScheduleResponse, error)
	ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.ShiftResponse, error)
	ListMine(ctx context.Context, teamID, callerID string) ([]dto.ShiftResponse, error)
	// Check 探测某房间某时段的占用情况，不落库
	Check(ctx context.Context, teamID, roomID, dayStr string, startMin, endMin int, callerID string) (*dto.ScheduleCheckResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

// ────────────────────── Replace ──────────────────────

func (s *scheduleService) Replace(ctx context.Context, teamID string, req *dto.ReplaceScheduleRequest, callerID string) (*dto.ReplaceScheduleResponse, error) {
	isOwner, err := s.repo.Team.IsOwner(ctx, teamID, callerID)
	if err != nil {
		s.logger.Error("查询负责人关系失败", zap.Error(err))
		return nil, err
	}
	if !isOwner {
		return nil, ErrNotTeamOwner
	}

	isMember, err := s.repo.Team.IsMember(ctx, teamID, req.WorkerID)
	if err != nil {
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return nil, err
	}
	if !isMember {
		return nil, ErrWorkerNotMember
	}

	// 角色与房间须属于同一团队
	if req.RoleID != nil {
		role, err := s.repo.Role.GetByID(ctx, *req.RoleID)
		if err != nil {
			return nil, ErrRoleNotFound
		}
		if role.TeamID != teamID {
			return nil, ErrRoleTeamMismatch
		}
	}
	if req.RoomID != nil {
		room, err := s.repo.Room.GetByID(ctx, *req.RoomID)
		if err != nil {
			return nil, ErrRoomNotFound
		}
		if room.TeamID != teamID {
			return nil, ErrRoomTeamMismatch
		}
	}

	shifts, err := s.buildShifts(teamID, req, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Shift.ReplaceForMember(ctx, teamID, req.WorkerID, shifts); err != nil {
		return nil, err
	}

	s.logger.Info("排班已替换",
		zap.String("team_id", teamID),
		zap.String("worker_id", req.WorkerID),
		zap.Int("created", len(shifts)))

	return &dto.ReplaceScheduleResponse{Status: "success", Created: len(shifts)}, nil
}

// ────────────────────── ListByTeam ──────────────────────

func (s *scheduleService) ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.ShiftResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	shifts, err := s.repo.Shift.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出班次失败", zap.Error(err))
		return nil, err
	}
	return s.toShiftResponses(ctx, teamID, shifts)
}

// ────────────────────── ListMine ──────────────────────

func (s *scheduleService) ListMine(ctx context.Context, teamID, callerID string) ([]dto.ShiftResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	shifts, err := s.repo.Shift.ListByTeamAndUser(ctx, teamID, callerID)
	if err != nil {
		s.logger.Error("列出班次失败", zap.Error(err))
		return nil, err
	}
	return s.toShiftResponses(ctx, teamID, shifts)
}

// ────────────────────── Check ──────────────────────

func (s *scheduleService) Check(ctx context.Context, teamID, roomID, dayStr string, startMin, endMin int, callerID string) (*dto.ScheduleCheckResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	room, err := s.repo.Room.GetByID(ctx, roomID)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	if room.TeamID != teamID {
		return nil, ErrRoomTeamMismatch
	}

	day, err := model.ParseDay(dayStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDay, dayStr)
	}
	if !clock.ValidInterval(startMin, endMin) {
		return nil, ErrInvalidInterval
	}

	occupancy, err := s.repo.Shift.CountOverlapping(ctx, roomID, day, startMin, endMin, "")
	if err != nil {
		s.logger.Error("统计重叠班次失败", zap.Error(err))
		return nil, err
	}

	return &dto.ScheduleCheckResponse{
		RoomID:    roomID,
		Day:       string(day),
		StartTime: clock.Format(startMin),
		EndTime:   clock.Format(endMin),
		Occupancy: occupancy,
		Capacity:  room.Capacity,
		Available: occupancy < room.Capacity,
	}, nil
}

// ── 内部辅助方法 ──

// buildShifts 把按星期分组的时间对展开成班次列表。
// 展开顺序固定为 周日→周六、组内按开始时刻升序，保证同一请求
// 在容量校验时的遍历顺序确定。
func (s *scheduleService) buildShifts(teamID string, req *dto.ReplaceScheduleRequest, callerID string) ([]model.Shift, error) {
	shifts := make([]model.Shift, 0, len(req.AssignedShifts)*2)

	for dayStr, pairs := range req.AssignedShifts {
		day, err := model.ParseDay(dayStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDay, dayStr)
		}
		for _, pair := range pairs {
			if len(pair) != 2 {
				return nil, fmt.Errorf("星期 %s 存在非 [start, end] 形式的时间对: %w", dayStr, ErrInvalidInterval)
			}
			start, end := int(pair[0]), int(pair[1])
			if !clock.ValidInterval(start, end) {
				return nil, fmt.Errorf("星期 %s 的区间 [%d, %d) 无效: %w", dayStr, start, end, ErrInvalidInterval)
			}
			shift := model.Shift{
				UserID:   req.WorkerID,
				TeamID:   teamID,
				Day:      day,
				StartMin: start,
				EndMin:   end,
				RoleID:   req.RoleID,
				RoomID:   req.RoomID,
			}
			shift.CreatedBy = &callerID
			shift.UpdatedBy = &callerID
			shifts = append(shifts, shift)
		}
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].Day != shifts[j].Day {
			return shifts[i].Day.Index() < shifts[j].Day.Index()
		}
		return shifts[i].StartMin < shifts[j].StartMin
	})
	return shifts, nil
}

func (s *scheduleService) toShiftResponses(ctx context.Context, teamID string, shifts []model.Shift) ([]dto.ShiftResponse, error) {
	roles, err := s.repo.Role.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出角色失败", zap.Error(err))
		return nil, err
	}
	rooms, err := s.repo.Room.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出房间失败", zap.Error(err))
		return nil, err
	}
	members, err := s.repo.Team.ListMembers(ctx, teamID)
	if err != nil {
		s.logger.Error("列出成员失败", zap.Error(err))
		return nil, err
	}

	roleByID := make(map[string]*model.Role, len(roles))
	for i := range roles {
		roleByID[roles[i].RoleID] = &roles[i]
	}
	roomByID := make(map[string]*model.Room, len(rooms))
	for i := range rooms {
		roomByID[rooms[i].RoomID] = &rooms[i]
	}
	nameByUser := make(map[string]string, len(members))
	for i := range members {
		if members[i].User != nil {
			nameByUser[members[i].UserID] = members[i].User.Name
		}
	}

	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		sh := &shifts[i]
		resp := dto.ShiftResponse{
			ID:        sh.ShiftID,
			UserID:    sh.UserID,
			UserName:  nameByUser[sh.UserID],
			Day:       string(sh.Day),
			StartTime: clock.Format(sh.StartMin),
			EndTime:   clock.Format(sh.EndMin),
		}
		if sh.RoleID != nil {
			if role, ok := roleByID[*sh.RoleID]; ok {
				resp.Role = &dto.RoleResponse{ID: role.RoleID, Name: role.Name, Color: role.Color}
			}
		}
		if sh.RoomID != nil {
			if room, ok := roomByID[*sh.RoomID]; ok {
				resp.Room = &dto.RoomResponse{ID: room.RoomID, Name: room.Name, Capacity: room.Capacity}
			}
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *scheduleService) requireMember(ctx context.Context, teamID, userID string) error {
	isMember, err := s.repo.Team.IsMember(ctx, teamID, userID)
	if err != nil {
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return err
	}
	if !isMember {
		return ErrNotTeamMember
	}
	return nil
}
