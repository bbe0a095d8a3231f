package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	reconcileHTTP "session-reconciler/internal/reconcile/delivery/http"
)

// setupReconciliationDomain wires the reconciliation delivery layer and
// registers its routes. The use case itself is built in cmd/api, where the
// calendar, roster and document dependencies live.
func (srv HTTPServer) setupReconciliationDomain(ctx context.Context, api *gin.RouterGroup) error {
	h := reconcileHTTP.New(srv.l, srv.reconcileUC)

	// Registers /api/v1/reconciliation/runs
	reconcileHTTP.RegisterRoutes(api, h, srv.middleware)

	srv.l.Infof(ctx, "Reconciliation domain registered")
	return nil
}
