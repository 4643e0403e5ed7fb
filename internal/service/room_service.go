package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/model"
	"shiftboard/backend/internal/repository"
	"shiftboard/backend/pkg/clock"
)

// ── 房间模块业务错误 ──

var (
	ErrRoomNotFound     = errors.New("房间不存在")
	ErrRoomTeamMismatch = errors.New("房间不属于该团队")
	ErrInvalidInterval  = errors.New("时间区间无效")
)

// RoomService 房间业务接口
type RoomService interface {
	Create(ctx context.Context, teamID string, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.RoomResponse, error)
	Update(ctx context.Context, teamID, roomID string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error)
	Delete(ctx context.Context, teamID, roomID, callerID string) error
	// ReplaceOpenHours 整套替换房间开放时段
	ReplaceOpenHours(ctx context.Context, teamID, roomID string, req *dto.ReplaceRoomOpenHoursRequest, callerID string) error
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, teamID string, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	capacity := req.Capacity
	if capacity < 1 {
		capacity = 1
	}

	room := &model.Room{
		TeamID:   teamID,
		Name:     req.Name,
		Capacity: capacity,
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建房间失败", zap.Error(err))
		return nil, err
	}

	return &dto.RoomResponse{ID: room.RoomID, Name: room.Name, Capacity: room.Capacity}, nil
}

// ────────────────────── ListByTeam ──────────────────────

func (s *roomService) ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.RoomResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	rooms, err := s.repo.Room.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出房间失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		resp := dto.RoomResponse{
			ID:       rooms[i].RoomID,
			Name:     rooms[i].Name,
			Capacity: rooms[i].Capacity,
		}
		slots, err := s.repo.Room.ListOpenHours(ctx, rooms[i].RoomID)
		if err != nil {
			s.logger.Error("列出开放时段失败", zap.Error(err))
			return nil, err
		}
		for _, slot := range slots {
			resp.OpenHours = append(resp.OpenHours, dto.RoomAvailabilitySlot{
				Day:      slot.Day.Index(),
				StartMin: slot.StartMin,
				EndMin:   slot.EndMin,
			})
		}
		result = append(result, resp)
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *roomService) Update(ctx context.Context, teamID, roomID string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	room, err := s.getRoom(ctx, teamID, roomID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Update(ctx, room); err != nil {
		s.logger.Error("更新房间失败", zap.String("room_id", roomID), zap.Error(err))
		return nil, err
	}

	return &dto.RoomResponse{ID: room.RoomID, Name: room.Name, Capacity: room.Capacity}, nil
}

// ────────────────────── Delete ──────────────────────

func (s *roomService) Delete(ctx context.Context, teamID, roomID, callerID string) error {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return err
	}
	if _, err := s.getRoom(ctx, teamID, roomID); err != nil {
		return err
	}

	if err := s.repo.Room.Delete(ctx, roomID, callerID); err != nil {
		s.logger.Error("删除房间失败", zap.String("room_id", roomID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ReplaceOpenHours ──────────────────────

func (s *roomService) ReplaceOpenHours(ctx context.Context, teamID, roomID string, req *dto.ReplaceRoomOpenHoursRequest, callerID string) error {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return err
	}
	if _, err := s.getRoom(ctx, teamID, roomID); err != nil {
		return err
	}

	slots := make([]model.RoomAvailability, 0, len(req.Slots))
	for _, slot := range req.Slots {
		day, err := model.DayFromIndex(slot.Day)
		if err != nil {
			return err
		}
		if !clock.ValidInterval(slot.StartMin, slot.EndMin) {
			return ErrInvalidInterval
		}
		entry := model.RoomAvailability{
			RoomID:   roomID,
			Day:      day,
			StartMin: slot.StartMin,
			EndMin:   slot.EndMin,
		}
		entry.CreatedBy = &callerID
		entry.UpdatedBy = &callerID
		slots = append(slots, entry)
	}

	if err := s.repo.Room.ReplaceOpenHours(ctx, roomID, slots); err != nil {
		s.logger.Error("替换开放时段失败", zap.String("room_id", roomID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *roomService) getRoom(ctx context.Context, teamID, roomID string) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询房间失败", zap.String("room_id", roomID), zap.Error(err))
		return nil, err
	}
	if room.TeamID != teamID {
		return nil, ErrRoomTeamMismatch
	}
	return room, nil
}

func (s *roomService) requireOwner(ctx context.Context, teamID, userID string) error {
	isOwner, err := s.repo.Team.IsOwner(ctx, teamID, userID)
	if err != nil {
		s.logger.Error("查询负责人关系失败", zap.Error(err))
		return err
	}
	if !isOwner {
		return ErrNotTeamOwner
	}
	return nil
}

func (s *roomService) requireMember(ctx context.Context, teamID, userID string) error {
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
