package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"shiftboard/backend/internal/service"
	"shiftboard/backend/pkg/response"
)

// ExportHandler 排班导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSchedule 导出团队排班为 Excel 文件
// GET /api/v1/teams/:teamID/schedule/export
func (h *ExportHandler) ExportSchedule(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportSchedule(c.Request.Context(), c.Param("teamID"), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 文件名含中文，需按 RFC 5987 编码
	encoded := url.PathEscape(filename)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, encoded))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, "团队不存在")
	case errors.Is(err, service.ErrNotTeamMember):
		response.Forbidden(c, "您不是该团队成员")
	case errors.Is(err, service.ErrExportNoShifts):
		response.NotFound(c, "该团队暂无排班")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c, "生成 Excel 文件失败")
	default:
		response.InternalError(c, "")
	}
}
