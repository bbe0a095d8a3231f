package model

import "session-reconciler/pkg/timenorm"

// ClaimSource identifies where a session claim originated.
type ClaimSource string

const (
	SourceUserSubmitted ClaimSource = "user-submitted"
)

// SessionClaim is a user-submitted record asserting a work session occurred.
// Immutable once submitted; the engine consumes it read-only.
type SessionClaim struct {
	Ref           string // Stable reference assigned at intake (uuid)
	ParticipantID string
	Date          string // Local date, YYYY-MM-DD
	StartTime     string // Local wall clock, HH:MM or HH:MM:SS
	EndTime       string
	ActivityLabel string
	Source        ClaimSource
}

// Key returns the identity used for duplicate detection:
// same participant, date and time range.
func (c SessionClaim) Key() string {
	return c.ParticipantID + "|" + c.Date + "|" + c.StartTime + "|" + c.EndTime
}

// CalendarEvent is an authoritative record of a scheduled meeting fetched
// from the external calendar system. Immutable.
type CalendarEvent struct {
	EventID       string
	ParticipantID string
	Date          string // Local date, YYYY-MM-DD
	StartTime     string // Local wall clock
	EndTime       string
	Subject       string
}

// NormalizedInterval is the canonical-timezone (UTC) projection of a claim
// or an event. Pure derived value, no independent lifecycle.
type NormalizedInterval struct {
	ParticipantID string
	Date          string
	timenorm.Interval
}

// MatchStatus classifies the result of matching a claim against calendar events.
type MatchStatus string

const (
	StatusMatched        MatchStatus = "MATCHED"
	StatusPartialOverlap MatchStatus = "PARTIAL_OVERLAP"
	StatusNoMatch        MatchStatus = "NO_MATCH"
	StatusDuplicate      MatchStatus = "DUPLICATE"
	// StatusInvalid marks claims whose interval could not be normalized
	// (malformed or end <= start). Captured as a result rather than an error
	// so one bad claim never aborts the batch.
	StatusInvalid MatchStatus = "INVALID"
)

// MatchResult is the matcher's verdict for a single claim.
type MatchResult struct {
	ClaimRef         string
	EventID          string // best candidate event, empty for NoMatch/Duplicate/Invalid
	Status           MatchStatus
	DeviationMinutes int
	OverlapMinutes   int                // minutes of the claim covered by the referenced event
	Interval         NormalizedInterval // claim interval; zero value when Status is Invalid
	Billable         timenorm.Interval  // event-supported span, set for Matched only
	ActivityLabel    string
	Detail           string // human-readable context (e.g. normalization failure)
}

// Decision is the reconciliation policy's final verdict for a claim.
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
	DecisionFlagged  Decision = "FLAGGED"
)

// ReconciliationOutcome is the per-claim policy decision. The outcome set
// always partitions the input claims: exactly one outcome per claim.
type ReconciliationOutcome struct {
	ClaimRef string
	Decision Decision
	Reason   string
}

// LineItem is a billable unit derived from approved sessions,
// ready for document templating.
type LineItem struct {
	ParticipantID   string
	Date            string
	DurationMinutes int
	ActivityLabel   string
	Amount          float64
}
