package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/server/handlers"
)

// Handlers groups the HTTP adapters wired into the engine.
type Handlers struct {
	Activity  *handlers.ActivityHandler
	Profile   *handlers.ProfileHandler
	Dashboard *handlers.DashboardHandler
	Insights  *handlers.InsightsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api/v1")
	api.POST("/calculate", h.Activity.Calculate)
	api.POST("/baseline", h.Profile.Baseline)

	users := api.Group("/users/:userID")
	users.POST("/activities", h.Activity.Log)
	users.GET("/activities", h.Activity.List)
	users.DELETE("/activities/:id", h.Activity.Delete)

	users.GET("/profile", h.Profile.Get)
	users.PUT("/profile", h.Profile.Submit)
	users.GET("/profile/history", h.Profile.History)

	users.GET("/dashboard", h.Dashboard.Overview)

	users.POST("/insights/summary", h.Insights.Summary)
	users.POST("/insights/tips", h.Insights.Tips)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
