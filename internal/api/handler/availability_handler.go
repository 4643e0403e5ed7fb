package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/service"
	"shiftboard/backend/pkg/response"
)

// AvailabilityHandler 空闲时间模块 HTTP 处理器
type AvailabilityHandler struct {
	availSvc service.AvailabilityService
}

func NewAvailabilityHandler(availSvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availSvc: availSvc}
}

// Replace 整体替换当前用户在团队内的空闲时间。
// 响应为扁平结构 {"status":"success","count":n}，不走统一 data 包装。
// POST /api/v1/teams/:teamID/availability
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	var req dto.ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.availSvc.Replace(c.Request.Context(), c.Param("teamID"), &req, userID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMine 列出当前用户在团队内的空闲时间
// GET /api/v1/teams/:teamID/availability/my
func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entries, err := h.availSvc.ListMine(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, entries)
}

// List 列出团队全部成员的空闲时间
// GET /api/v1/teams/:teamID/availability
func (h *AvailabilityHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entries, err := h.availSvc.ListByTeam(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, entries)
}

// ImportICS 从 ICS 日历导入空闲时间。
// 请求体为 JSON {"url": "..."} 时拉取远端日历，
// 否则按 multipart 文件字段 file 解析上传的 .ics 文件。
// POST /api/v1/teams/:teamID/availability/import
func (h *AvailabilityHandler) ImportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	teamID := c.Param("teamID")

	if c.ContentType() == "application/json" {
		var req dto.ImportAvailabilityICSRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			response.BadRequest(c, "参数校验失败")
			return
		}
		result, err := h.availSvc.ImportICSFromURL(c.Request.Context(), teamID, req.URL, userID)
		if err != nil {
			h.handleAvailabilityError(c, err)
			return
		}
		response.OK(c, result)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请上传 .ics 文件或提供日历 URL")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "读取上传文件失败")
		return
	}
	defer file.Close()

	result, err := h.availSvc.ImportICS(c.Request.Context(), teamID, file, userID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, "团队不存在")
	case errors.Is(err, service.ErrNotTeamMember):
		response.Forbidden(c, "您不是该团队成员")
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, "角色不存在")
	case errors.Is(err, service.ErrRoleTeamMismatch):
		response.BadRequest(c, "角色不属于该团队")
	case errors.Is(err, service.ErrInvalidDay):
		response.BadRequest(c, "星期标识不合法")
	case errors.Is(err, service.ErrInvalidInterval):
		response.BadRequest(c, "时间区间不合法")
	case errors.Is(err, service.ErrICSParse):
		response.BadRequest(c, "日历内容解析失败")
	case errors.Is(err, service.ErrICSFetch):
		response.BadRequest(c, "拉取远端日历失败")
	default:
		response.InternalError(c, "")
	}
}
