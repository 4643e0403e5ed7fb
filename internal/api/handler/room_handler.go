package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/service"
	pkgerrors "shiftboard/backend/pkg/errors"
	"shiftboard/backend/pkg/response"
)

// RoomHandler 房间模块 HTTP 处理器
type RoomHandler struct {
	roomSvc service.RoomService
}

func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// Create 创建房间
// POST /api/v1/teams/:teamID/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), c.Param("teamID"), &req, userID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.Created(c, room)
}

// List 列出团队房间（含开放时段）
// GET /api/v1/teams/:teamID/rooms
func (h *RoomHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rooms, err := h.roomSvc.ListByTeam(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.OK(c, rooms)
}

// Update 更新房间
// PATCH /api/v1/teams/:teamID/rooms/:roomID
func (h *RoomHandler) Update(c *gin.Context) {
	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), c.Param("teamID"), c.Param("roomID"), &req, userID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.OK(c, room)
}

// Delete 删除房间（现有班次保留，room_id 置空）
// DELETE /api/v1/teams/:teamID/rooms/:roomID
func (h *RoomHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	err := h.roomSvc.Delete(c.Request.Context(), c.Param("teamID"), c.Param("roomID"), userID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.OK(c, nil)
}

// ReplaceOpenHours 整体替换房间开放时段
// PUT /api/v1/teams/:teamID/rooms/:roomID/open-hours
func (h *RoomHandler) ReplaceOpenHours(c *gin.Context) {
	var req dto.ReplaceRoomOpenHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	err := h.roomSvc.ReplaceOpenHours(c.Request.Context(), c.Param("teamID"), c.Param("roomID"), &req, userID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *RoomHandler) handleRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, "团队不存在")
	case errors.Is(err, service.ErrNotTeamOwner):
		response.Forbidden(c, "仅团队负责人可执行此操作")
	case errors.Is(err, service.ErrNotTeamMember):
		response.Forbidden(c, "您不是该团队成员")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, "房间不存在")
	case errors.Is(err, service.ErrRoomTeamMismatch):
		response.BadRequest(c, "房间不属于该团队")
	case errors.Is(err, service.ErrInvalidInterval):
		response.BadRequest(c, "时间区间不合法")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, "数据已被其他请求修改，请刷新后重试")
	default:
		response.InternalError(c, "")
	}
}
