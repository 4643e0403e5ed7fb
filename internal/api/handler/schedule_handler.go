package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/service"
	pkgerrors "shiftboard/backend/pkg/errors"
	"shiftboard/backend/pkg/response"
)

// ScheduleHandler 排班模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Replace 整体替换成员排班。
// 响应为扁平结构 {"status":"success","created":n}，不走统一 data 包装。
// POST /api/v1/teams/:teamID/schedule
func (h *ScheduleHandler) Replace(c *gin.Context) {
	var req dto.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Replace(c.Request.Context(), c.Param("teamID"), &req, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List 列出团队排班
// GET /api/v1/teams/:teamID/schedule
func (h *ScheduleHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shifts, err := h.scheduleSvc.ListByTeam(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, shifts)
}

// ListMine 列出当前用户在团队内的排班
// GET /api/v1/teams/:teamID/schedule/my
func (h *ScheduleHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shifts, err := h.scheduleSvc.ListMine(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, shifts)
}

// Check 试算时间段占用，不落库
// GET /api/v1/teams/:teamID/schedule/check?room_id=xx&day=mon&start=600&end=720
func (h *ScheduleHandler) Check(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	roomID := c.Query("room_id")
	day := c.Query("day")
	start, err1 := strconv.Atoi(c.Query("start"))
	end, err2 := strconv.Atoi(c.Query("end"))
	if roomID == "" || day == "" || err1 != nil || err2 != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Check(c.Request.Context(), c.Param("teamID"), roomID, day, start, end, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// handleScheduleError 统一处理排班模块业务错误。
// 容量冲突按对外契约返回 500，错误信息携带房间、星期与时间段。
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case pkgerrors.IsRoomCapacity(err):
		response.InternalError(c, err.Error())
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, "团队不存在")
	case errors.Is(err, service.ErrNotTeamOwner):
		response.Forbidden(c, "仅团队负责人可执行此操作")
	case errors.Is(err, service.ErrNotTeamMember):
		response.Forbidden(c, "您不是该团队成员")
	case errors.Is(err, service.ErrWorkerNotMember):
		response.BadRequest(c, "被排班人不是该团队成员")
	case errors.Is(err, service.ErrRoleTeamMismatch):
		response.BadRequest(c, "角色不属于该团队")
	case errors.Is(err, service.ErrRoomTeamMismatch):
		response.BadRequest(c, "房间不属于该团队")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, "房间不存在")
	case errors.Is(err, service.ErrInvalidDay):
		response.BadRequest(c, "星期标识不合法")
	case errors.Is(err, service.ErrInvalidInterval):
		response.BadRequest(c, "时间区间不合法")
	default:
		response.InternalError(c, "")
	}
}
