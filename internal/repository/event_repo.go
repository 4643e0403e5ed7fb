package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftboard/backend/internal/model"
)

// EventRepository 团队固定活动数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.TeamEvent) error
	GetByID(ctx context.Context, id string) (*model.TeamEvent, error)
	ListByTeam(ctx context.Context, teamID string) ([]model.TeamEvent, error)
	Delete(ctx context.Context, id string) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.TeamEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.TeamEvent, error) {
	var event model.TeamEvent
	err := r.db.WithContext(ctx).
		Where("team_event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByTeam(ctx context.Context, teamID string) ([]model.TeamEvent, error) {
	var events []model.TeamEvent
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("day ASC, start_min ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Where("team_event_id = ?", id).
		Delete(&model.TeamEvent{}).Error
}
