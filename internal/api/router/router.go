package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-route/config"
	"clinic-route/internal/api/handler"
	"clinic-route/internal/api/middleware"
	"clinic-route/pkg/jwt"
	"clinic-route/pkg/redis"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "ok"
			if err := rdb.Ping(c.Request.Context()); err != nil {
				redisStatus = "down"
			}
		}
		c.JSON(200, gin.H{"status": "ok", "redis": redisStatus})
	})

	editors := middleware.RoleAuth(middleware.RoleAdmin, middleware.RoleScheduler)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 周路线模块
		routes := authorized.Group("/weekly-routes")
		{
			routes.GET("", h.WeeklyRoute.GetWeek)
			routes.DELETE("/session", h.WeeklyRoute.DiscardSession)
			routes.POST("/generate", editors,
				middleware.RateLimit(rdb, cfg.Schedule.AutoGenerateRateLimit, time.Minute),
				h.WeeklyRoute.Generate)
			routes.PUT("/visits/move", editors, h.WeeklyRoute.MoveVisit)
			routes.DELETE("/visits", editors, h.WeeklyRoute.DeleteVisit)
			routes.POST("/visits", editors, h.WeeklyRoute.ManualAdd)
			routes.PUT("/visits/:id/status", h.WeeklyRoute.UpdateVisitStatus) // 施术者可登记完成 / 缺席
			routes.POST("/copy-previous", editors, h.WeeklyRoute.CopyPreviousWeek)
			routes.POST("/manual-batch", editors, h.WeeklyRoute.ManualBatchAssign)
		}

		// 导出模块
		export := authorized.Group("/export")
		{
			export.GET("/weekly-routes", h.Export.ExportWeek)
			export.GET("/weekly-routes/ics", h.Export.ExportStaffCalendar)
		}
	}

	return r
}
