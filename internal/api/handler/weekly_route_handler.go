package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clinic-route/internal/dto"
	"clinic-route/internal/service"
	pkgerrors "clinic-route/pkg/errors"
	"clinic-route/pkg/response"
)

// WeeklyRouteHandler 周路线模块 HTTP 处理器
type WeeklyRouteHandler struct {
	routeSvc service.WeeklyRouteService
}

// NewWeeklyRouteHandler 创建 WeeklyRouteHandler
func NewWeeklyRouteHandler(routeSvc service.WeeklyRouteService) *WeeklyRouteHandler {
	return &WeeklyRouteHandler{routeSvc: routeSvc}
}

// GetWeek 加载周视图
// GET /api/v1/weekly-routes?week=YYYY-MM-DD
func (h *WeeklyRouteHandler) GetWeek(c *gin.Context) {
	var req dto.WeekQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	week, err := h.routeSvc.GetWeek(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.OK(c, week)
}

// Generate 自动排班
// POST /api/v1/weekly-routes/generate
func (h *WeeklyRouteHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.routeSvc.Generate(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.OK(c, result)
}

// MoveVisit 移动访问
// PUT /api/v1/weekly-routes/visits/move
func (h *WeeklyRouteHandler) MoveVisit(c *gin.Context) {
	var req dto.MoveVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}
	if req.Label == "" && req.VisitID == "" {
		response.BadRequest(c, 20001, "label 与 visit_id 不能同时为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	week, err := h.routeSvc.MoveVisit(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.OK(c, week)
}

// DeleteVisit 删除访问
// DELETE /api/v1/weekly-routes/visits
func (h *WeeklyRouteHandler) DeleteVisit(c *gin.Context) {
	var req dto.DeleteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}
	if req.Label == "" && req.VisitID == "" {
		response.BadRequest(c, 20001, "label 与 visit_id 不能同时为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	week, err := h.routeSvc.DeleteVisit(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.OK(c, week)
}

// ManualAdd 手动登记访问
// POST /api/v1/weekly-routes/visits
func (h *WeeklyRouteHandler) ManualAdd(c *gin.Context) {
	var req dto.ManualAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	week, err := h.routeSvc.ManualAdd(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.Created(c, week)
}

// UpdateVisitStatus 更新访问状态
// PUT /api/v1/weekly-routes/visits/:id/status
func (h *WeeklyRouteHandler) UpdateVisitStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "访问ID不能为空")
		return
	}

	var req dto.UpdateVisitStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.routeSvc.UpdateVisitStatus(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.OK(c, result)
}

// CopyPreviousWeek 复制上周
// POST /api/v1/weekly-routes/copy-previous
func (h *WeeklyRouteHandler) CopyPreviousWeek(c *gin.Context) {
	var req dto.WeekQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.routeSvc.CopyPreviousWeek(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.OK(c, result)
}

// ManualBatchAssign 手动患者批量分配
// POST /api/v1/weekly-routes/manual-batch
func (h *WeeklyRouteHandler) ManualBatchAssign(c *gin.Context) {
	var req dto.ManualBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.routeSvc.ManualBatchAssign(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.OK(c, result)
}

// DiscardSession 丢弃周会话（切换周时调用）
// DELETE /api/v1/weekly-routes/session?week=YYYY-MM-DD
func (h *WeeklyRouteHandler) DiscardSession(c *gin.Context) {
	var req dto.WeekQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.routeSvc.DiscardSession(c.Request.Context(), &req, callerID); err != nil {
		h.handleWeeklyRouteError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *WeeklyRouteHandler) handleWeeklyRouteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWeek):
		response.BadRequest(c, 20101, "周参数无效")
	case errors.Is(err, service.ErrInvalidWeekday):
		response.BadRequest(c, 20102, "星期无效")
	case errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 20103, "时间格式无效")
	case errors.Is(err, service.ErrInvalidVisitStatus):
		response.BadRequest(c, 20104, "访问状态无效")
	case errors.Is(err, service.ErrNoAutoStaff):
		response.BadRequest(c, 20105, "没有可自动排班的施术者")
	case errors.Is(err, service.ErrPreviousWeekEmpty):
		response.BadRequest(c, 20106, "上周没有可复制的访问")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 20201, "施术者不存在")
	case errors.Is(err, service.ErrPatientNotFound):
		response.NotFound(c, 20202, "患者不存在")
	case errors.Is(err, service.ErrVisitNotFound):
		response.NotFound(c, 20203, "访问记录不存在")
	case errors.Is(err, service.ErrVisitIdentityUnresolved):
		response.Conflict(c, 20301, "无法定位该访问记录，请刷新周视图后重试")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 20302, "访问记录已被修改或删除，请刷新周视图后重试")
	case errors.Is(err, service.ErrDuplicateVisit):
		response.Conflict(c, 20303, "该患者在此日期时间已有访问")
	default:
		response.InternalError(c)
	}
}
