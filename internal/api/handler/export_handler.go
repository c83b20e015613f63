package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"clinic-route/internal/dto"
	"clinic-route/internal/service"
	"clinic-route/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeek 导出周路线
// GET /api/v1/export/weekly-routes?week=YYYY-MM-DD
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	var req dto.WeekQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 21001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportWeek(c.Request.Context(), req.Week)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportStaffCalendar 导出施术者一周日历
// GET /api/v1/export/weekly-routes/ics?week=YYYY-MM-DD&staff_id=xxx
func (h *ExportHandler) ExportStaffCalendar(c *gin.Context) {
	var req dto.ExportICSQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 21001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportStaffCalendar(c.Request.Context(), req.Week, req.StaffID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, filename, contentTypeICS, buf.Bytes())
}

// writeAttachment 设置下载响应头
func writeAttachment(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWeek):
		response.BadRequest(c, 21101, "周参数无效")
	case errors.Is(err, service.ErrExportNoVisits):
		response.NotFound(c, 21102, "该周暂无访问")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 21103, "施术者不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
