package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/model"
	"shiftboard/backend/internal/repository"
	"shiftboard/backend/pkg/clock"
)

// ── 团队日程模块业务错误 ──

var (
	ErrEventNotFound = errors.New("日程不存在")
)

// EventService 团队日程业务接口。
// 日程是团队级的信息性日历条目，不参与房间容量校验。
type EventService interface {
	Create(ctx context.Context, teamID string, req *dto.CreateTeamEventRequest, callerID string) (*dto.TeamEventResponse, error)
	ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.TeamEventResponse, error)
	Delete(ctx context.Context, teamID, eventID, callerID string) error
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, teamID string, req *dto.CreateTeamEventRequest, callerID string) (*dto.TeamEventResponse, error) {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	day, err := model.ParseDay(req.Day)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDay, req.Day)
	}
	if !clock.ValidInterval(req.StartMin, req.EndMin) {
		return nil, ErrInvalidInterval
	}

	var room *model.Room
	if req.RoomID != nil {
		room, err = s.repo.Room.GetByID(ctx, *req.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomNotFound
			}
			s.logger.Error("查询房间失败", zap.Error(err))
			return nil, err
		}
		if room.TeamID != teamID {
			return nil, ErrRoomTeamMismatch
		}
	}

	event := &model.TeamEvent{
		TeamID:   teamID,
		Name:     req.Name,
		RoomID:   req.RoomID,
		Day:      day,
		StartMin: req.StartMin,
		EndMin:   req.EndMin,
	}
	event.CreatedBy = &callerID
	event.UpdatedBy = &callerID

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("创建日程失败", zap.Error(err))
		return nil, err
	}

	return s.toResponse(event, room), nil
}

// ────────────────────── ListByTeam ──────────────────────

func (s *eventService) ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.TeamEventResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	events, err := s.repo.Event.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出日程失败", zap.Error(err))
		return nil, err
	}

	rooms, err := s.repo.Room.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出房间失败", zap.Error(err))
		return nil, err
	}
	roomByID := make(map[string]*model.Room, len(rooms))
	for i := range rooms {
		roomByID[rooms[i].RoomID] = &rooms[i]
	}

	result := make([]dto.TeamEventResponse, 0, len(events))
	for i := range events {
		var room *model.Room
		if events[i].RoomID != nil {
			room = roomByID[*events[i].RoomID]
		}
		result = append(result, *s.toResponse(&events[i], room))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, teamID, eventID, callerID string) error {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return err
	}

	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Error(err))
		return err
	}
	if event.TeamID != teamID {
		return ErrEventNotFound
	}

	if err := s.repo.Event.Delete(ctx, eventID); err != nil {
		s.logger.Error("删除日程失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *eventService) toResponse(event *model.TeamEvent, room *model.Room) *dto.TeamEventResponse {
	resp := &dto.TeamEventResponse{
		ID:        event.TeamEventID,
		Name:      event.Name,
		Day:       string(event.Day),
		StartTime: clock.Format(event.StartMin),
		EndTime:   clock.Format(event.EndMin),
	}
	if room != nil {
		resp.Room = &dto.RoomResponse{ID: room.RoomID, Name: room.Name, Capacity: room.Capacity}
	}
	return resp
}

func (s *eventService) requireOwner(ctx context.Context, teamID, userID string) error {
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

func (s *eventService) requireMember(ctx context.Context, teamID, userID string) error {
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
