package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"pharmacy-roster/backend/internal/service"
	"pharmacy-roster/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel 导出排班运行为 Excel
// GET /api/v1/export/excel?run_id=xxx
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	runID := c.Query("run_id")
	if runID == "" {
		response.BadRequest(c, 10001, "run_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), runID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportICS 导出单名员工的班次为 iCalendar
// GET /api/v1/export/ics?run_id=xxx&staff_id=yyy
func (h *ExportHandler) ExportICS(c *gin.Context) {
	runID := c.Query("run_id")
	staffID := c.Query("staff_id")
	if runID == "" || staffID == "" {
		response.BadRequest(c, 10001, "run_id 与 staff_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportICS(c.Request.Context(), runID, staffID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		response.NotFound(c, 16101, "排班运行不存在")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 12001, "员工不存在")
	case errors.Is(err, service.ErrExportNoBlocks):
		response.BadRequest(c, 16102, "该员工在此排班中无班次")
	default:
		response.InternalError(c)
	}
}
