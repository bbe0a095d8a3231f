package reconcile

import (
	"session-reconciler/internal/model"
	"session-reconciler/pkg/timenorm"
)

// Engine is the pure reconciliation pipeline for one configuration:
// normalize, index, match, decide. It performs no I/O, holds no locks, and
// keeps no state between batches, so separate batches may run concurrently.
type Engine struct {
	cfg     Config
	norm    *timenorm.Normalizer
	matcher *Matcher
	policy  Policy
}

// NewEngine validates the configuration and builds the pipeline.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	norm, err := timenorm.New(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	matcher, err := NewMatcher(cfg, norm)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, norm: norm, matcher: matcher}, nil
}

// Reconcile runs one batch of claims against one batch of calendar events.
// The report always carries exactly one outcome per claim, even when some
// claims are malformed.
func (e *Engine) Reconcile(claims []model.SessionClaim, events []model.CalendarEvent) Report {
	ix := BuildIndex(events, e.norm)

	results := e.matcher.MatchBatch(claims, ix)
	outcomes := e.policy.Decide(results)

	return Report{
		Results:       results,
		Outcomes:      outcomes,
		Approved:      approvedSessions(results, outcomes),
		SkippedEvents: ix.Skipped(),
	}
}

// approvedSessions projects the approved subset into billable sessions.
func approvedSessions(results []model.MatchResult, outcomes []model.ReconciliationOutcome) []ApprovedSession {
	approved := make([]ApprovedSession, 0, len(results))
	for i, r := range results {
		if outcomes[i].Decision != model.DecisionApproved {
			continue
		}
		approved = append(approved, ApprovedSession{
			ClaimRef:        r.ClaimRef,
			ParticipantID:   r.Interval.ParticipantID,
			Date:            r.Interval.Date,
			ActivityLabel:   r.ActivityLabel,
			DurationMinutes: r.Billable.DurationMinutes(),
			Interval:        r.Billable,
		})
	}
	return approved
}
