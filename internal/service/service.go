package service

import (
	"go.uber.org/zap"

	"clinic-route/config"
	"clinic-route/internal/repository"
	"clinic-route/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	WeeklyRoute WeeklyRouteService
	Export      ExportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时周会话退化为进程内存储
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	sessions := NewSessionStore(rdb, cfg.Schedule.SessionTTL)
	return &Service{
		WeeklyRoute: NewWeeklyRouteService(&cfg.Schedule, repo, sessions, logger),
		Export:      NewExportService(&cfg.Schedule, repo, logger),
	}
}
