package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/handler"
	"github.com/harish176/plum-project/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	extractH *handler.ExtractHandler,
	directH *handler.DirectHandler,
	healthH *handler.HealthHandler,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Full pipeline routes
	extract := v1.Group("/extract")
	extract.POST("/text", extractH.FromText)
	extract.POST("/image", extractH.FromImage)

	// Direct pattern-matching routes
	direct := v1.Group("/direct")
	direct.POST("/text", directH.FromText)
	direct.POST("/image", directH.FromImage)

	return r
}
