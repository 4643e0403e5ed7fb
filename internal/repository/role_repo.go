package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftboard/backend/internal/model"
)

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	GetByID(ctx context.Context, id string) (*model.Role, error)
	ListByTeam(ctx context.Context, teamID string) ([]model.Role, error)
	// Delete 删除角色：置空班次上的引用、清理意愿与指派（同一事务）
	Delete(ctx context.Context, id string, deletedBy string) error

	// Assign 角色指派（replace-on-write）：先删 (team, user) 旧行再建新行；
	// roleID 为空字符串时仅清除
	Assign(ctx context.Context, teamID, userID, roleID string, operatorID string) error
	GetAssignment(ctx context.Context, teamID, userID string) (*model.TeamRoleAssignment, error)
	ListAssignmentsByTeam(ctx context.Context, teamID string) ([]model.TeamRoleAssignment, error)

	// ReplacePreferences 整套替换 (user, team) 的角色意愿
	ReplacePreferences(ctx context.Context, teamID, userID string, roleIDs []string) error
	ListPreferences(ctx context.Context, teamID, userID string) ([]model.UserRolePreference, error)
	ListPreferencesByTeam(ctx context.Context, teamID string) ([]model.UserRolePreference, error)
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepo) GetByID(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("role_id = ?", id).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) ListByTeam(ctx context.Context, teamID string) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 引用置空：班次保留，只摘掉角色标签
		if err := tx.Model(&model.Shift{}).
			Where("role_id = ?", id).
			Update("role_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("role_id = ?", id).
			Delete(&model.UserRolePreference{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("role_id = ?", id).
			Delete(&model.TeamRoleAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Role{}).
			Where("role_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("role_id = ?", id).Delete(&model.Role{}).Error
	})
}

func (r *roleRepo) Assign(ctx context.Context, teamID, userID, roleID string, operatorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&model.TeamRoleAssignment{}).Error; err != nil {
			return err
		}
		if roleID == "" {
			return nil
		}
		assignment := model.TeamRoleAssignment{
			TeamID: teamID,
			UserID: userID,
			RoleID: roleID,
		}
		assignment.CreatedBy = &operatorID
		assignment.UpdatedBy = &operatorID
		return tx.Create(&assignment).Error
	})
}

func (r *roleRepo) GetAssignment(ctx context.Context, teamID, userID string) (*model.TeamRoleAssignment, error) {
	var assignment model.TeamRoleAssignment
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *roleRepo) ListAssignmentsByTeam(ctx context.Context, teamID string) ([]model.TeamRoleAssignment, error) {
	var assignments []model.TeamRoleAssignment
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("team_id = ?", teamID).
		Find(&assignments).Error
	return assignments, err
}

func (r *roleRepo) ReplacePreferences(ctx context.Context, teamID, userID string, roleIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 替换场景硬删除，无需软删除审计
		if err := tx.Unscoped().
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&model.UserRolePreference{}).Error; err != nil {
			return err
		}
		if len(roleIDs) == 0 {
			return nil
		}
		prefs := make([]model.UserRolePreference, 0, len(roleIDs))
		for _, roleID := range roleIDs {
			p := model.UserRolePreference{
				UserID: userID,
				TeamID: teamID,
				RoleID: roleID,
			}
			p.CreatedBy = &userID
			p.UpdatedBy = &userID
			prefs = append(prefs, p)
		}
		return tx.Create(&prefs).Error
	})
}

func (r *roleRepo) ListPreferences(ctx context.Context, teamID, userID string) ([]model.UserRolePreference, error) {
	var prefs []model.UserRolePreference
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Find(&prefs).Error
	return prefs, err
}

func (r *roleRepo) ListPreferencesByTeam(ctx context.Context, teamID string) ([]model.UserRolePreference, error) {
	var prefs []model.UserRolePreference
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("team_id = ?", teamID).
		Find(&prefs).Error
	return prefs, err
}
