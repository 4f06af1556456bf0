package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pharmacy-roster/backend/config"
	"pharmacy-roster/backend/internal/api/handler"
	"pharmacy-roster/backend/internal/api/middleware"
	"pharmacy-roster/backend/pkg/jwt"
	"pharmacy-roster/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 30, time.Minute), h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 账号模块（管理员）
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin"), h.Auth.ListUsers)
				users.POST("", middleware.RoleAuth("admin"), h.Auth.CreateUser)
			}

			// 员工模块
			staff := authorized.Group("/staff")
			{
				staff.GET("", h.Staff.List)
				staff.POST("", middleware.RoleAuth("admin", "scheduler"), h.Staff.Create)
				staff.PUT("/:id", middleware.RoleAuth("admin", "scheduler"), h.Staff.Update)
				staff.DELETE("/:id", middleware.RoleAuth("admin", "scheduler"), h.Staff.Delete)
				staff.POST("/resize", middleware.RoleAuth("admin", "scheduler"), h.Staff.Resize)
				staff.GET("/:id/marks", h.Staff.ListMarks)
				staff.PUT("/:id/marks", middleware.RoleAuth("admin", "scheduler"), h.Staff.SetMark)
			}

			// 排班配置模块
			config := authorized.Group("/config")
			{
				config.GET("", h.Config.Get)
				config.PUT("/requirements", middleware.RoleAuth("admin", "scheduler"), h.Config.UpdateRequirements)
				config.PUT("/coverage", middleware.RoleAuth("admin", "scheduler"), h.Config.UpdateCoverage)
				config.POST("/preset", middleware.RoleAuth("admin", "scheduler"), h.Config.ApplyPreset)
			}

			// 排班模块
			schedules := authorized.Group("/schedules")
			{
				schedules.POST("", middleware.RoleAuth("admin", "scheduler"), h.Schedule.Generate)
				schedules.GET("/latest", h.Schedule.GetLatest)
				schedules.GET("/:id", h.Schedule.GetByID)
				schedules.PUT("/:id/override", middleware.RoleAuth("admin", "scheduler"), h.Schedule.SetOverride)
				schedules.POST("/:id/cycle", middleware.RoleAuth("admin", "scheduler"), h.Schedule.CycleCell)
				schedules.POST("/:id/overrides/clear", middleware.RoleAuth("admin", "scheduler"), h.Schedule.ClearOverrides)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/excel", h.Export.ExportExcel)
				export.GET("/ics", h.Export.ExportICS)
			}
		}
	}

	return r
}
