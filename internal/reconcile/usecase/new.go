package usecase

import (
	"session-reconciler/internal/billing"
	"session-reconciler/internal/calendar"
	"session-reconciler/internal/document"
	"session-reconciler/internal/reconcile"
	"session-reconciler/internal/roster"
	"session-reconciler/pkg/log"
)

// implUseCase is the private implementation of reconcile.UseCase.
type implUseCase struct {
	l          log.Logger
	engine     *reconcile.Engine
	calRepo    calendar.EventRepository
	rosterRepo roster.Repository
	docRepo    document.Repository
	billing    *billing.Builder
	docs       *document.Builder
}

// New creates a reconciliation UseCase. An invalid configuration is
// rejected here, before any batch can run.
func New(
	l log.Logger,
	cfg reconcile.Config,
	calRepo calendar.EventRepository,
	rosterRepo roster.Repository,
	docRepo document.Repository,
) (*implUseCase, error) {
	engine, err := reconcile.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	docs, err := document.NewBuilder(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &implUseCase{
		l:          l,
		engine:     engine,
		calRepo:    calRepo,
		rosterRepo: rosterRepo,
		docRepo:    docRepo,
		billing:    billing.NewBuilder(l, rosterRepo),
		docs:       docs,
	}, nil
}
