package handler

import "clinic-route/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	WeeklyRoute *WeeklyRouteHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		WeeklyRoute: NewWeeklyRouteHandler(svc.WeeklyRoute),
		Export:      NewExportHandler(svc.Export),
	}
}
