package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/service"
	"shiftboard/backend/pkg/response"
)

// EventHandler 团队日程模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// Create 创建团队日程
// POST /api/v1/teams/:teamID/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateTeamEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), c.Param("teamID"), &req, userID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// List 列出团队日程
// GET /api/v1/teams/:teamID/events
func (h *EventHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	events, err := h.eventSvc.ListByTeam(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, events)
}

// Delete 删除团队日程
// DELETE /api/v1/teams/:teamID/events/:eventID
func (h *EventHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	err := h.eventSvc.Delete(c.Request.Context(), c.Param("teamID"), c.Param("eventID"), userID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, "团队不存在")
	case errors.Is(err, service.ErrNotTeamOwner):
		response.Forbidden(c, "仅团队负责人可执行此操作")
	case errors.Is(err, service.ErrNotTeamMember):
		response.Forbidden(c, "您不是该团队成员")
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, "日程不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, "房间不存在")
	case errors.Is(err, service.ErrRoomTeamMismatch):
		response.BadRequest(c, "房间不属于该团队")
	case errors.Is(err, service.ErrInvalidDay):
		response.BadRequest(c, "星期标识不合法")
	case errors.Is(err, service.ErrInvalidInterval):
		response.BadRequest(c, "时间区间不合法")
	default:
		response.InternalError(c, "")
	}
}
