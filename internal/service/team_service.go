package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/model"
	"shiftboard/backend/internal/repository"
	pkgerrors "shiftboard/backend/pkg/errors"
)

// ── 团队模块业务错误 ──

var (
	ErrTeamNotFound   = errors.New("团队不存在")
	ErrNotTeamOwner   = errors.New("仅团队负责人可执行此操作")
	ErrNotTeamMember  = errors.New("不是该团队成员")
	ErrOwnerLeave     = errors.New("负责人不能退出自己的团队")
	ErrMemberNotFound = errors.New("成员不存在")
)

const joinCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const joinCodeLength = 8

// TeamService 团队业务接口
type TeamService interface {
	Create(ctx context.Context, req *dto.CreateTeamRequest, callerID string) (*dto.TeamResponse, error)
	GetByID(ctx context.Context, teamID, callerID string) (*dto.TeamResponse, error)
	ListByUser(ctx context.Context, callerID string) ([]dto.TeamResponse, error)
	ListMembers(ctx context.Context, teamID, callerID string) ([]dto.TeamMemberResponse, error)
	// Join 按加入码加入团队。code 无效时静默成功（Team 为空），
	// 不向调用方泄露 code 是否存在。
	Join(ctx context.Context, req *dto.JoinTeamRequest, callerID string) (*dto.JoinTeamResponse, error)
	RemoveMember(ctx context.Context, teamID, memberID, callerID string) error
	Leave(ctx context.Context, teamID, callerID string) error
	RegenerateJoinCode(ctx context.Context, teamID, callerID string) (*dto.TeamResponse, error)
	Delete(ctx context.Context, teamID, callerID string) error

	// RequireMember / RequireOwner 供其他 Service 复用的权限检查
	RequireMember(ctx context.Context, teamID, userID string) error
	RequireOwner(ctx context.Context, teamID, userID string) error
}

type teamService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeamService 创建 TeamService 实例
func NewTeamService(repo *repository.Repository, logger *zap.Logger) TeamService {
	return &teamService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *teamService) Create(ctx context.Context, req *dto.CreateTeamRequest, callerID string) (*dto.TeamResponse, error) {
	code, err := generateJoinCode()
	if err != nil {
		s.logger.Error("生成加入码失败", zap.Error(err))
		return nil, err
	}

	team := &model.Team{
		Name:     req.Name,
		OwnerID:  callerID,
		JoinCode: code,
	}
	team.CreatedBy = &callerID
	team.UpdatedBy = &callerID

	if err := s.repo.Team.Create(ctx, team); err != nil {
		s.logger.Error("创建团队失败", zap.Error(err))
		return nil, err
	}

	return s.toTeamResponse(team, true, 1), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *teamService) GetByID(ctx context.Context, teamID, callerID string) (*dto.TeamResponse, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	members, err := s.repo.Team.ListMembers(ctx, teamID)
	if err != nil {
		s.logger.Error("列出成员失败", zap.Error(err))
		return nil, err
	}

	return s.toTeamResponse(team, team.OwnerID == callerID, len(members)), nil
}

// ────────────────────── ListByUser ──────────────────────

func (s *teamService) ListByUser(ctx context.Context, callerID string) ([]dto.TeamResponse, error) {
	teams, err := s.repo.Team.ListByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("列出团队失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		result = append(result, *s.toTeamResponse(&teams[i], teams[i].OwnerID == callerID, 0))
	}
	return result, nil
}

// ────────────────────── ListMembers ──────────────────────

func (s *teamService) ListMembers(ctx context.Context, teamID, callerID string) ([]dto.TeamMemberResponse, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	members, err := s.repo.Team.ListMembers(ctx, teamID)
	if err != nil {
		s.logger.Error("列出成员失败", zap.Error(err))
		return nil, err
	}

	// 一次取全团队的指派与意愿，内存里按用户归并
	assignments, err := s.repo.Role.ListAssignmentsByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出角色指派失败", zap.Error(err))
		return nil, err
	}
	prefs, err := s.repo.Role.ListPreferencesByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出角色意愿失败", zap.Error(err))
		return nil, err
	}
	roles, err := s.repo.Role.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出角色失败", zap.Error(err))
		return nil, err
	}

	roleByID := make(map[string]*model.Role, len(roles))
	for i := range roles {
		roleByID[roles[i].RoleID] = &roles[i]
	}
	assignedByUser := make(map[string]string, len(assignments))
	for _, a := range assignments {
		assignedByUser[a.UserID] = a.RoleID
	}
	prefsByUser := make(map[string][]string)
	for _, p := range prefs {
		prefsByUser[p.UserID] = append(prefsByUser[p.UserID], p.RoleID)
	}

	result := make([]dto.TeamMemberResponse, 0, len(members))
	for i := range members {
		m := &members[i]
		resp := dto.TeamMemberResponse{
			UserID:  m.UserID,
			IsOwner: m.UserID == team.OwnerID,
		}
		if m.User != nil {
			resp.Name = m.User.Name
			resp.Email = m.User.Email
		}
		if roleID, ok := assignedByUser[m.UserID]; ok {
			if role, ok := roleByID[roleID]; ok {
				resp.AssignedRole = &dto.RoleResponse{ID: role.RoleID, Name: role.Name, Color: role.Color}
			}
		}
		for _, roleID := range prefsByUser[m.UserID] {
			if role, ok := roleByID[roleID]; ok {
				resp.Preferences = append(resp.Preferences, dto.RoleResponse{ID: role.RoleID, Name: role.Name, Color: role.Color})
			}
		}
		result = append(result, resp)
	}
	return result, nil
}

// ────────────────────── Join ──────────────────────

func (s *teamService) Join(ctx context.Context, req *dto.JoinTeamRequest, callerID string) (*dto.JoinTeamResponse, error) {
	team, err := s.repo.Team.GetByJoinCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 无效 code 静默 no-op，仅记日志
			s.logger.Info("加入码未命中", zap.String("user_id", callerID))
			return &dto.JoinTeamResponse{}, nil
		}
		s.logger.Error("查询加入码失败", zap.Error(err))
		return nil, err
	}

	isMember, err := s.repo.Team.IsMember(ctx, team.TeamID, callerID)
	if err != nil {
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return nil, err
	}
	if !isMember {
		if err := s.repo.Team.AddMember(ctx, team.TeamID, callerID); err != nil {
			s.logger.Error("加入团队失败", zap.Error(err))
			return nil, err
		}
	}

	// 加入者看不到 join code
	return &dto.JoinTeamResponse{Team: s.toTeamResponse(team, false, 0)}, nil
}

// ────────────────────── RemoveMember ──────────────────────

func (s *teamService) RemoveMember(ctx context.Context, teamID, memberID, callerID string) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID != callerID {
		return ErrNotTeamOwner
	}
	if memberID == team.OwnerID {
		return ErrOwnerLeave
	}

	isMember, err := s.repo.Team.IsMember(ctx, teamID, memberID)
	if err != nil {
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return err
	}
	if !isMember {
		return ErrMemberNotFound
	}

	if err := s.repo.Team.RemoveMember(ctx, teamID, memberID); err != nil {
		s.logger.Error("移除成员失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Leave ──────────────────────

func (s *teamService) Leave(ctx context.Context, teamID, callerID string) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID == callerID {
		return ErrOwnerLeave
	}

	isMember, err := s.repo.Team.IsMember(ctx, teamID, callerID)
	if err != nil {
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return err
	}
	if !isMember {
		return ErrNotTeamMember
	}

	if err := s.repo.Team.RemoveMember(ctx, teamID, callerID); err != nil {
		s.logger.Error("退出团队失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── RegenerateJoinCode ──────────────────────

func (s *teamService) RegenerateJoinCode(ctx context.Context, teamID, callerID string) (*dto.TeamResponse, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.OwnerID != callerID {
		return nil, ErrNotTeamOwner
	}

	code, err := generateJoinCode()
	if err != nil {
		s.logger.Error("生成加入码失败", zap.Error(err))
		return nil, err
	}
	team.JoinCode = code
	team.UpdatedBy = &callerID

	if err := s.repo.Team.UpdateJoinCode(ctx, team); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新加入码失败", zap.Error(err))
		return nil, err
	}

	return s.toTeamResponse(team, true, 0), nil
}

// ────────────────────── Delete ──────────────────────

func (s *teamService) Delete(ctx context.Context, teamID, callerID string) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID != callerID {
		return ErrNotTeamOwner
	}

	if err := s.repo.Team.Delete(ctx, teamID, callerID); err != nil {
		s.logger.Error("删除团队失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 权限检查 ──────────────────────

func (s *teamService) RequireMember(ctx context.Context, teamID, userID string) error {
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

func (s *teamService) RequireOwner(ctx context.Context, teamID, userID string) error {
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

// ── 内部辅助方法 ──

func (s *teamService) getTeam(ctx context.Context, teamID string) (*model.Team, error) {
	team, err := s.repo.Team.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("查询团队失败", zap.String("team_id", teamID), zap.Error(err))
		return nil, err
	}
	return team, nil
}

func (s *teamService) toTeamResponse(team *model.Team, showJoinCode bool, memberCount int) *dto.TeamResponse {
	resp := &dto.TeamResponse{
		ID:          team.TeamID,
		Name:        team.Name,
		OwnerID:     team.OwnerID,
		MemberCount: memberCount,
	}
	if showJoinCode {
		resp.JoinCode = team.JoinCode
	}
	return resp
}

func generateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(joinCodeCharset))))
		if err != nil {
			return "", err
		}
		buf[i] = joinCodeCharset[n.Int64()]
	}
	return string(buf), nil
}
