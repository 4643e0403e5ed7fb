package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftboard/backend/internal/model"
)

// AvailabilityRepository 成员空闲时段数据访问接口
type AvailabilityRepository interface {
	// ReplaceForMember 整套替换某成员在某团队的空闲时段
	ReplaceForMember(ctx context.Context, teamID, userID string, ranges []model.AvailabilityRange) error
	ListByTeamAndUser(ctx context.Context, teamID, userID string) ([]model.AvailabilityRange, error)
	ListByTeam(ctx context.Context, teamID string) ([]model.AvailabilityRange, error)
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo 创建 AvailabilityRepository 实例
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) ReplaceForMember(ctx context.Context, teamID, userID string, ranges []model.AvailabilityRange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&model.AvailabilityRange{}).Error; err != nil {
			return err
		}
		if len(ranges) == 0 {
			return nil
		}
		return tx.Create(&ranges).Error
	})
}

func (r *availabilityRepo) ListByTeamAndUser(ctx context.Context, teamID, userID string) ([]model.AvailabilityRange, error) {
	var ranges []model.AvailabilityRange
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Order("day ASC, start_time ASC").
		Find(&ranges).Error
	return ranges, err
}

func (r *availabilityRepo) ListByTeam(ctx context.Context, teamID string) ([]model.AvailabilityRange, error) {
	var ranges []model.AvailabilityRange
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("user_id ASC, day ASC, start_time ASC").
		Find(&ranges).Error
	return ranges, err
}
