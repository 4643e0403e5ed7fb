package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/service"
	"shiftboard/backend/pkg/response"
)

// RoleHandler 角色模块 HTTP 处理器
type RoleHandler struct {
	roleSvc service.RoleService
}

func NewRoleHandler(roleSvc service.RoleService) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc}
}

// Create 创建角色
// POST /api/v1/teams/:teamID/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	role, err := h.roleSvc.Create(c.Request.Context(), c.Param("teamID"), &req, userID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.Created(c, role)
}

// List 列出团队角色
// GET /api/v1/teams/:teamID/roles
func (h *RoleHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	roles, err := h.roleSvc.ListByTeam(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, roles)
}

// Delete 删除角色
// DELETE /api/v1/teams/:teamID/roles/:roleID
func (h *RoleHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	err := h.roleSvc.Delete(c.Request.Context(), c.Param("teamID"), c.Param("roleID"), userID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Assign 给成员指派角色（role_id 为空时清除指派）
// POST /api/v1/teams/:teamID/roles/assign
func (h *RoleHandler) Assign(c *gin.Context) {
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.roleSvc.Assign(c.Request.Context(), c.Param("teamID"), &req, userID); err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *RoleHandler) handleRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, "团队不存在")
	case errors.Is(err, service.ErrNotTeamOwner):
		response.Forbidden(c, "仅团队负责人可执行此操作")
	case errors.Is(err, service.ErrNotTeamMember):
		response.Forbidden(c, "您不是该团队成员")
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, "角色不存在")
	case errors.Is(err, service.ErrRoleTeamMismatch):
		response.BadRequest(c, "角色不属于该团队")
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, "成员不存在")
	default:
		response.InternalError(c, "")
	}
}
