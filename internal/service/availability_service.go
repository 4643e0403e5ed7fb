package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/model"
	"shiftboard/backend/internal/repository"
	"shiftboard/backend/pkg/clock"
)

// AvailabilityService 成员空闲时段业务接口。
// 提交是整套替换：一次提交替换提交者在团队内的全部空闲时段；
// role_ids 给出时连同角色意愿一并整套替换。
type AvailabilityService interface {
	Replace(ctx context.Context, teamID string, req *dto.ReplaceAvailabilityRequest, callerID string) (*dto.ReplaceAvailabilityResponse, error)
	ListMine(ctx context.Context, teamID, callerID string) ([]dto.AvailabilityRangeResponse, error)
	ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.AvailabilityRangeResponse, error)
	// ImportICS 从 iCalendar 数据流导入空闲时段（整套替换）
	ImportICS(ctx context.Context, teamID string, reader io.Reader, callerID string) (*dto.ImportAvailabilityICSResponse, error)
	// ImportICSFromURL 从 URL 拉取 ICS 后导入
	ImportICSFromURL(ctx context.Context, teamID, url, callerID string) (*dto.ImportAvailabilityICSResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger}
}

// ────────────────────── Replace ──────────────────────

func (s *availabilityService) Replace(ctx context.Context, teamID string, req *dto.ReplaceAvailabilityRequest, callerID string) (*dto.ReplaceAvailabilityResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	ranges := make([]model.AvailabilityRange, 0, len(req.Events))
	for _, evt := range req.Events {
		day, err := model.DayFromIndex(evt.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDay, evt.Day)
		}
		if !clock.ValidInterval(evt.StartMin, evt.EndMin) {
			return nil, fmt.Errorf("星期 %s 的区间 [%d, %d) 无效: %w", day, evt.StartMin, evt.EndMin, ErrInvalidInterval)
		}
		entry := model.AvailabilityRange{
			UserID:    callerID,
			TeamID:    teamID,
			Day:       day,
			StartTime: clock.Format(evt.StartMin),
			EndTime:   clock.Format(evt.EndMin),
			Location:  evt.Location,
			EventName: evt.Name,
		}
		entry.CreatedBy = &callerID
		entry.UpdatedBy = &callerID
		ranges = append(ranges, entry)
	}

	if err := s.repo.Availability.ReplaceForMember(ctx, teamID, callerID, ranges); err != nil {
		s.logger.Error("替换空闲时段失败", zap.Error(err))
		return nil, err
	}

	// role_ids 给出（含空数组）时一并整套替换角色意愿
	if req.RoleIDs != nil {
		for _, roleID := range req.RoleIDs {
			role, err := s.repo.Role.GetByID(ctx, roleID)
			if err != nil {
				return nil, ErrRoleNotFound
			}
			if role.TeamID != teamID {
				return nil, ErrRoleTeamMismatch
			}
		}
		if err := s.repo.Role.ReplacePreferences(ctx, teamID, callerID, req.RoleIDs); err != nil {
			s.logger.Error("替换角色意愿失败", zap.Error(err))
			return nil, err
		}
	}

	return &dto.ReplaceAvailabilityResponse{Status: "success", Count: len(ranges)}, nil
}

// ────────────────────── ListMine ──────────────────────

func (s *availabilityService) ListMine(ctx context.Context, teamID, callerID string) ([]dto.AvailabilityRangeResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	ranges, err := s.repo.Availability.ListByTeamAndUser(ctx, teamID, callerID)
	if err != nil {
		s.logger.Error("列出空闲时段失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, teamID, ranges)
}

// ────────────────────── ListByTeam ──────────────────────

func (s *availabilityService) ListByTeam(ctx context.Context, teamID, callerID string) ([]dto.AvailabilityRangeResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	ranges, err := s.repo.Availability.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("列出空闲时段失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, teamID, ranges)
}

// ────────────────────── ImportICS ──────────────────────

func (s *availabilityService) ImportICS(ctx context.Context, teamID string, reader io.Reader, callerID string) (*dto.ImportAvailabilityICSResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	ranges, err := ParseICS(reader, callerID, teamID)
	if err != nil {
		return nil, err
	}
	for i := range ranges {
		ranges[i].CreatedBy = &callerID
		ranges[i].UpdatedBy = &callerID
	}

	if err := s.repo.Availability.ReplaceForMember(ctx, teamID, callerID, ranges); err != nil {
		s.logger.Error("导入空闲时段失败", zap.Error(err))
		return nil, err
	}

	entries := make([]dto.AvailabilityRangeResponse, 0, len(ranges))
	for i := range ranges {
		entries = append(entries, s.toResponse(&ranges[i], ""))
	}
	return &dto.ImportAvailabilityICSResponse{
		ImportedCount: len(ranges),
		Entries:       entries,
	}, nil
}

func (s *availabilityService) ImportICSFromURL(ctx context.Context, teamID, url, callerID string) (*dto.ImportAvailabilityICSResponse, error) {
	if err := s.requireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	body, err := FetchICSContent(url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return s.ImportICS(ctx, teamID, body, callerID)
}

// ── 内部辅助方法 ──

func (s *availabilityService) toResponses(ctx context.Context, teamID string, ranges []model.AvailabilityRange) ([]dto.AvailabilityRangeResponse, error) {
	members, err := s.repo.Team.ListMembers(ctx, teamID)
	if err != nil {
		s.logger.Error("列出成员失败", zap.Error(err))
		return nil, err
	}
	nameByUser := make(map[string]string, len(members))
	for i := range members {
		if members[i].User != nil {
			nameByUser[members[i].UserID] = members[i].User.Name
		}
	}

	result := make([]dto.AvailabilityRangeResponse, 0, len(ranges))
	for i := range ranges {
		result = append(result, s.toResponse(&ranges[i], nameByUser[ranges[i].UserID]))
	}
	return result, nil
}

func (s *availabilityService) toResponse(r *model.AvailabilityRange, userName string) dto.AvailabilityRangeResponse {
	return dto.AvailabilityRangeResponse{
		ID:        r.AvailabilityRangeID,
		UserID:    r.UserID,
		UserName:  userName,
		Day:       string(r.Day),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Location:  r.Location,
		EventName: r.EventName,
	}
}

func (s *availabilityService) requireMember(ctx context.Context, teamID, userID string) error {
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
