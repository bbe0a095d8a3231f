package http

import (
	"github.com/gin-gonic/gin"
)

// processRunReq binds and validates the reconciliation run request body.
func (h *handler) processRunReq(c *gin.Context) (runReq, error) {
	var req runReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}
