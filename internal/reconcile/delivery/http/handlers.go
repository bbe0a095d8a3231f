package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"session-reconciler/internal/model"
	"session-reconciler/internal/reconcile"
	"session-reconciler/pkg/response"
)

// Run godoc
// @Summary     Run a reconciliation batch
// @Description Reconciles submitted session claims against calendar events, returns per-claim outcomes, billing line items and generated document references.
// @Tags        Reconciliation
// @Accept      json
// @Produce     json
// @Param       body body runReq true "Session claims"
// @Success     200 {object} runResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/reconciliation/runs [POST]
func (h *handler) Run(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processRunReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Run(ctx, model.Scope{}, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Run: %v", err)
		if errors.Is(err, reconcile.ErrNoClaims) {
			response.Error(c, err, nil)
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, h.newRunResp(output))
}
