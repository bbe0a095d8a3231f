package reconcile

import "errors"

// Domain-specific errors for the reconcile package.
var (
	ErrInvalidConfig = errors.New("invalid reconciliation config")
	ErrNoClaims      = errors.New("claims batch is empty")
)
