package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edmundobop/plataforma-bravo-web-sub001/config"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/api/handler"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/api/middleware"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/jwt"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/redis"
)

// Setup builds the Gin engine with all middleware and routes.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	supervisorOnly := middleware.RoleAuth(model.RoleSupervisor, model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// open endpoints, rate-limited against brute force
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// personnel
			users := authorized.Group("/users")
			{
				users.GET("", supervisorOnly, h.User.List)
				users.GET("/:id", supervisorOnly, h.User.Get)
			}

			// units, roster partition and rotation generation
			units := authorized.Group("/units")
			{
				units.GET("", supervisorOnly, h.Unit.List)
				units.GET("/:id", h.Unit.Get)
				units.GET("/:id/roster", h.Roster.ListEligible)
				units.GET("/:id/partition", h.Roster.GetPartition)
				units.PUT("/:id/partition", supervisorOnly, h.Roster.SetPartition)
				units.POST("/:id/rotations", supervisorOnly, h.Schedule.Generate)
			}

			// schedule reads
			schedule := authorized.Group("/schedule")
			{
				schedule.GET("", h.Schedule.List)
				schedule.GET("/assignments", h.Schedule.ListAssignments)
				schedule.GET("/my", h.Schedule.MySchedule)
			}

			// duty-swap protocol
			swaps := authorized.Group("/swaps")
			{
				swaps.POST("", h.Swap.Propose)
				swaps.GET("", h.Swap.ListMine)
				swaps.GET("/pending", supervisorOnly, h.Swap.ListPending)
				swaps.GET("/:id", h.Swap.Get)
				swaps.POST("/:id/respond", h.Swap.Respond)
				swaps.POST("/:id/confirm", h.Swap.Confirm)
				swaps.POST("/:id/decision", supervisorOnly, h.Swap.Decide)
			}

			// notifications
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
			}

			// downloads
			export := authorized.Group("/export")
			{
				export.GET("/schedule", supervisorOnly, h.Export.ExportSchedule)
				export.GET("/my-calendar", h.Export.ExportMyCalendar)
			}
		}
	}

	return r
}
