package http

import (
	"github.com/gin-gonic/gin"

	"session-reconciler/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	runs := rg.Group("/reconciliation")
	{
		runs.POST("/runs", mw.RateLimit(), h.Run)
	}
}
