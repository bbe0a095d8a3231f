package reconcile

import (
	"context"

	"session-reconciler/internal/model"
)

// UseCase defines the business logic interface for the reconciliation domain.
type UseCase interface {
	// Run reconciles a batch of session claims against fetched calendar
	// events, builds billing line items from the approved set, and hands
	// the generated documents to the document store.
	Run(ctx context.Context, sc model.Scope, input RunInput) (RunOutput, error)
}
