package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shiftboard/backend/config"
	"shiftboard/backend/internal/api/handler"
	"shiftboard/backend/internal/api/middleware"
	"shiftboard/backend/pkg/jwt"
	"shiftboard/backend/pkg/redis"
)

// 请求体上限。排班与 ICS 导入的请求体都不大，1MB 足够。
const maxRequestBody = 1 << 20

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
	r.Use(middleware.BodyLimit(maxRequestBody))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录注册限流防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 团队模块
			teams := authorized.Group("/teams")
			{
				teams.POST("", h.Team.Create)
				teams.GET("", h.Team.List)
				teams.POST("/join", h.Team.Join)
				teams.GET("/:teamID", h.Team.Get)
				teams.DELETE("/:teamID", h.Team.Delete)
				teams.POST("/:teamID/leave", h.Team.Leave)
				teams.GET("/:teamID/members", h.Team.ListMembers)
				teams.DELETE("/:teamID/members/:memberID", h.Team.RemoveMember)
				teams.POST("/:teamID/join-code", h.Team.RegenerateJoinCode)

				// 角色模块
				teams.POST("/:teamID/roles", h.Role.Create)
				teams.GET("/:teamID/roles", h.Role.List)
				teams.DELETE("/:teamID/roles/:roleID", h.Role.Delete)
				teams.POST("/:teamID/roles/assign", h.Role.Assign)

				// 房间模块
				teams.POST("/:teamID/rooms", h.Room.Create)
				teams.GET("/:teamID/rooms", h.Room.List)
				teams.PATCH("/:teamID/rooms/:roomID", h.Room.Update)
				teams.DELETE("/:teamID/rooms/:roomID", h.Room.Delete)
				teams.PUT("/:teamID/rooms/:roomID/open-hours", h.Room.ReplaceOpenHours)

				// 排班模块
				teams.POST("/:teamID/schedule", h.Schedule.Replace)
				teams.GET("/:teamID/schedule", h.Schedule.List)
				teams.GET("/:teamID/schedule/my", h.Schedule.ListMine)
				teams.GET("/:teamID/schedule/check", h.Schedule.Check)
				teams.GET("/:teamID/schedule/export", h.Export.ExportSchedule)

				// 空闲时间模块
				teams.POST("/:teamID/availability", h.Availability.Replace)
				teams.GET("/:teamID/availability", h.Availability.List)
				teams.GET("/:teamID/availability/my", h.Availability.ListMine)
				teams.POST("/:teamID/availability/import", h.Availability.ImportICS)

				// 团队日程模块
				teams.POST("/:teamID/events", h.Event.Create)
				teams.GET("/:teamID/events", h.Event.List)
				teams.DELETE("/:teamID/events/:eventID", h.Event.Delete)
			}
		}
	}

	return r
}
