package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/model"
	"shiftboard/backend/internal/repository"
)

// ── 角色模块业务错误 ──

var (
	ErrRoleNotFound     = errors.New("角色不存在")
	ErrRoleTeamMismatch = errors.New("角色不属于该团队")
)

// RoleService 角色业务接口
type RoleService interface {
	Create(ctx context.Context, teamID string, req *dto.CreateRoleRequest, callerID string) (*dto.RoleResponse, error)
	ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.RoleResponse, error)
	Delete(ctx context.Context, teamID, roleID, callerID string) error
	// Assign 给成员指派角色（replace-on-write）；RoleID 为 nil 时仅清除
	Assign(ctx context.Context, teamID string, req *dto.AssignRoleRequest, callerID string) error
}

type roleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoleService 创建 RoleService 实例
func NewRoleService(repo *repository.Repository, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roleService) Create(ctx context.Context, teamID string, req *dto.CreateRoleRequest, callerID string) (*dto.RoleResponse, error) {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	role := &model.Role{
		TeamID: teamID,
		Name:   req.Name,
	}
	if req.Color != "" {
		role.Color = req.Color
	}
	role.CreatedBy = &callerID
	role.UpdatedBy = &callerID

	if err := s.repo.Role.Create(ctx, role); err != nil {
		s.logger.Error("创建角色失败", zap.Error(err))
		return nil, err
	}

	return &dto.RoleResponse{ID: role.RoleID, Name: role.Name, Color: role.Color}, nil
}

// ────────────────────── ListByTeam ──────────────────────

func (s *roleService) ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.RoleResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	roles, err := s.repo.Role.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出角色失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		result = append(result, dto.RoleResponse{
			ID:    roles[i].RoleID,
			Name:  roles[i].Name,
			Color: roles[i].Color,
		})
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *roleService) Delete(ctx context.Context, teamID, roleID, callerID string) error {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return err
	}

	role, err := s.repo.Role.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.Error(err))
		return err
	}
	if role.TeamID != teamID {
		return ErrRoleTeamMismatch
	}

	if err := s.repo.Role.Delete(ctx, roleID, callerID); err != nil {
		s.logger.Error("删除角色失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Assign ──────────────────────

func (s *roleService) Assign(ctx context.Context, teamID string, req *dto.AssignRoleRequest, callerID string) error {
	if err := s.requireOwner(ctx, teamID, callerID); err != nil {
		return err
	}
	if err := s.requireMember(ctx, teamID, req.UserID); err != nil {
		return err
	}

	roleID := ""
	if req.RoleID != nil {
		role, err := s.repo.Role.GetByID(ctx, *req.RoleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			s.logger.Error("查询角色失败", zap.Error(err))
			return err
		}
		if role.TeamID != teamID {
			return ErrRoleTeamMismatch
		}
		roleID = role.RoleID
	}

	if err := s.repo.Role.Assign(ctx, teamID, req.UserID, roleID, callerID); err != nil {
		s.logger.Error("指派角色失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *roleService) requireOwner(ctx context.Context, teamID, userID string) error {
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

func (s *roleService) requireMember(ctx context.Context, teamID, userID string) error {
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
