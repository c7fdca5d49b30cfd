package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/config"
	"github.com/joban727/medstintapp-sub005/internal/api/handler"
	"github.com/joban727/medstintapp-sub005/internal/api/middleware"
	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/pkg/jwt"
	"github.com/joban727/medstintapp-sub005/pkg/ratelimit"
	"github.com/joban727/medstintapp-sub005/pkg/validation"
)

// Limiters per-route request budgets. A nil limiter disables limiting.
type Limiters struct {
	Submission ratelimit.Limiter
	Evaluation ratelimit.Limiter
}

// Setup builds the gin engine. db may be nil, in which case /health skips
// the database ping.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiters Limiters, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	validation.Setup()

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API ──
	api := r.Group("/api")
	api.Use(middleware.JWTAuth(jwtMgr))
	{
		submissions := api.Group("/competency-submissions")
		{
			submissions.POST("", middleware.RateLimit(limiters.Submission, middleware.ByClientIP, logger), h.Submission.Submit)
			submissions.GET("", h.Submission.List)
		}

		api.POST("/competency-evaluations", middleware.RateLimit(limiters.Evaluation, middleware.ByClientIP, logger), h.Evaluation.Create)

		api.GET("/dashboard/student", h.Dashboard.StudentDashboard)

		reports := api.Group("/reports")
		reports.Use(middleware.RoleAuth(model.RoleSuperAdmin, model.RoleSchoolAdmin, model.RoleClinicalSupervisor))
		{
			reports.GET("/competency-progress", h.Report.ProgressReport)
			reports.GET("/competency-progress/export", h.Report.ExportProgressReport)
		}

		api.GET("/rotations/calendar.ics", h.Calendar.RotationCalendar)
	}

	return r
}
