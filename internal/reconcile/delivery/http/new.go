package http

import (
	"github.com/gin-gonic/gin"

	"session-reconciler/internal/reconcile"
	"session-reconciler/pkg/log"
)

// Handler is the public interface for the reconciliation HTTP delivery layer.
type Handler interface {
	Run(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc reconcile.UseCase
}

// New creates a new HTTP handler for the reconciliation domain.
func New(l log.Logger, uc reconcile.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
