package reconcile

import (
	"fmt"

	"session-reconciler/internal/model"
)

// Outcome reasons surfaced in the reconciliation report.
const (
	ReasonDuplicate       = "duplicate"
	ReasonNoEvent         = "no calendar event found"
	ReasonApprovedOverlap = "overlaps with another approved session"
)

// Policy applies the acceptance rules to match results, producing exactly
// one outcome per claim.
type Policy struct{}

// Decide maps each match result to an outcome, then demotes later-submitted
// approved claims that overlap an earlier approved claim of the same
// participant. The demotion pass runs over the approved subset only, so it
// sees final approval state rather than intermediate matcher output.
func (Policy) Decide(results []model.MatchResult) []model.ReconciliationOutcome {
	outcomes := make([]model.ReconciliationOutcome, len(results))

	for i, r := range results {
		outcome := model.ReconciliationOutcome{ClaimRef: r.ClaimRef}

		switch r.Status {
		case model.StatusDuplicate:
			outcome.Decision = model.DecisionRejected
			outcome.Reason = ReasonDuplicate
		case model.StatusInvalid:
			outcome.Decision = model.DecisionRejected
			outcome.Reason = r.Detail
		case model.StatusNoMatch:
			outcome.Decision = model.DecisionFlagged
			outcome.Reason = ReasonNoEvent
		case model.StatusPartialOverlap:
			outcome.Decision = model.DecisionFlagged
			outcome.Reason = fmt.Sprintf("partial overlap, deviation=%d", r.DeviationMinutes)
		case model.StatusMatched:
			outcome.Decision = model.DecisionApproved
		}

		outcomes[i] = outcome
	}

	demoteOverlaps(results, outcomes)

	return outcomes
}

// demoteOverlaps flags the later-submitted of any two approved claims of the
// same participant whose normalized intervals overlap. The earlier claim
// stays approved.
func demoteOverlaps(results []model.MatchResult, outcomes []model.ReconciliationOutcome) {
	kept := make(map[string][]model.NormalizedInterval)

	for i, r := range results {
		if outcomes[i].Decision != model.DecisionApproved {
			continue
		}

		overlapping := false
		for _, earlier := range kept[r.Interval.ParticipantID] {
			if r.Interval.Overlaps(earlier.Interval) {
				overlapping = true
				break
			}
		}

		if overlapping {
			outcomes[i].Decision = model.DecisionFlagged
			outcomes[i].Reason = ReasonApprovedOverlap
			continue
		}

		kept[r.Interval.ParticipantID] = append(kept[r.Interval.ParticipantID], r.Interval)
	}
}
