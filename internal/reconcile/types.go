package reconcile

import (
	"fmt"

	"session-reconciler/internal/model"
	"session-reconciler/pkg/timenorm"
)

// Defaults for the matcher acceptance rules.
const (
	DefaultOverlapThreshold = 0.9
	DefaultToleranceMinutes = 15
)

// Config holds the acceptance rules for a reconciliation run. It is passed
// explicitly into every run so the engine stays side-effect-free and can be
// exercised with varied configurations in parallel.
type Config struct {
	Timezone         string  // IANA zone the claims and events are declared in
	OverlapThreshold float64 // fraction of the claim duration a candidate must cover
	ToleranceMinutes int     // max summed start/end deviation for a full match
}

// DefaultConfig returns the standard acceptance rules.
func DefaultConfig(timezone string) Config {
	return Config{
		Timezone:         timezone,
		OverlapThreshold: DefaultOverlapThreshold,
		ToleranceMinutes: DefaultToleranceMinutes,
	}
}

// Validate checks the configuration before any batch runs.
// Violations are fatal to the whole run, never to a single claim.
func (c Config) Validate() error {
	if c.OverlapThreshold <= 0 || c.OverlapThreshold > 1 {
		return fmt.Errorf("%w: overlap threshold %v must be in (0, 1]", ErrInvalidConfig, c.OverlapThreshold)
	}
	if c.ToleranceMinutes < 0 {
		return fmt.Errorf("%w: tolerance %d must be >= 0", ErrInvalidConfig, c.ToleranceMinutes)
	}
	if _, err := timenorm.New(c.Timezone); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ApprovedSession is an approved claim with its normalized interval,
// ready for line-item building and timesheet rows.
type ApprovedSession struct {
	ClaimRef        string
	ParticipantID   string
	Date            string
	ActivityLabel   string
	DurationMinutes int
	Interval        timenorm.Interval
}

// SkippedEvent records a calendar event the index dropped because its
// own interval failed normalization.
type SkippedEvent struct {
	EventID string
	Reason  string
}

// Report is the full result of reconciling one batch: match results,
// one outcome per claim, and the approved subset.
type Report struct {
	Results       []model.MatchResult
	Outcomes      []model.ReconciliationOutcome
	Approved      []ApprovedSession
	SkippedEvents []SkippedEvent
}

// RunInput is one submission batch. Claim refs may be empty; the use case
// assigns them at intake.
type RunInput struct {
	Claims []model.SessionClaim
}

// ParticipantFailure reports a participant whose documents could not be
// generated. Other participants are unaffected.
type ParticipantFailure struct {
	ParticipantID string
	Reason        string
}

// DocumentRef points at a document delivered to the store.
type DocumentRef struct {
	ParticipantID string
	Kind          string // "invoice" or "timesheet"
	Path          string
}

// RunOutput is the full reconciliation report for one batch. Outcomes are
// always complete (one per claim) even when document generation failed for
// some participants.
type RunOutput struct {
	RunID     string
	Outcomes  []model.ReconciliationOutcome
	LineItems []model.LineItem
	Failures  []ParticipantFailure
	Documents []DocumentRef
}
