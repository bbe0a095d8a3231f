package reconcile

import (
	"math"

	"session-reconciler/internal/model"
	"session-reconciler/pkg/timenorm"
)

// Matcher decides, per claim, whether calendar evidence supports it.
type Matcher struct {
	cfg  Config
	norm *timenorm.Normalizer
}

// NewMatcher builds a matcher for one validated configuration.
func NewMatcher(cfg Config, norm *timenorm.Normalizer) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{cfg: cfg, norm: norm}, nil
}

// MatchBatch matches every claim in submission order. Repeat occurrences of
// the same participant/date/time range are marked Duplicate; only the first
// occurrence is matched against the calendar.
func (m *Matcher) MatchBatch(claims []model.SessionClaim, ix *Index) []model.MatchResult {
	results := make([]model.MatchResult, 0, len(claims))
	seen := make(map[string]bool, len(claims))

	for _, claim := range claims {
		if seen[claim.Key()] {
			results = append(results, model.MatchResult{
				ClaimRef:      claim.Ref,
				Status:        model.StatusDuplicate,
				ActivityLabel: claim.ActivityLabel,
			})
			continue
		}
		seen[claim.Key()] = true
		results = append(results, m.match(claim, ix))
	}

	return results
}

// match scores one claim against its same-day candidates.
func (m *Matcher) match(claim model.SessionClaim, ix *Index) model.MatchResult {
	result := model.MatchResult{
		ClaimRef:      claim.Ref,
		ActivityLabel: claim.ActivityLabel,
	}

	iv, err := m.norm.Normalize(claim.Date, claim.StartTime, claim.EndTime)
	if err != nil {
		result.Status = model.StatusInvalid
		result.Detail = err.Error()
		return result
	}
	result.Interval = model.NormalizedInterval{
		ParticipantID: claim.ParticipantID,
		Date:          claim.Date,
		Interval:      iv,
	}

	candidates := ix.Lookup(claim.ParticipantID, claim.Date)

	requiredOverlap := int(math.Ceil(m.cfg.OverlapThreshold * float64(iv.DurationMinutes())))

	var (
		matched, partial       *EventCandidate
		matchedOv, partialOv   int
		matchedDev, partialDev int
	)

	for i := range candidates {
		cand := &candidates[i]
		overlap := iv.OverlapMinutes(cand.Interval)
		if overlap == 0 {
			continue
		}
		deviation := iv.DeviationMinutes(cand.Interval)

		qualifies := overlap >= requiredOverlap && deviation <= m.cfg.ToleranceMinutes
		if qualifies && (matched == nil || overlap > matchedOv) {
			// Candidates arrive ordered by start, so on equal overlap the
			// earliest start is already the one kept.
			matched, matchedOv, matchedDev = cand, overlap, deviation
		}
		if partial == nil || overlap > partialOv {
			partial, partialOv, partialDev = cand, overlap, deviation
		}
	}

	switch {
	case matched != nil:
		result.Status = model.StatusMatched
		result.EventID = matched.Event.EventID
		result.DeviationMinutes = matchedDev
		result.OverlapMinutes = matchedOv
		// Billing covers only the event-supported span of the claim.
		result.Billable, _ = iv.Intersect(matched.Interval)
	case partial != nil:
		result.Status = model.StatusPartialOverlap
		result.EventID = partial.Event.EventID
		result.DeviationMinutes = partialDev
		result.OverlapMinutes = partialOv
	default:
		result.Status = model.StatusNoMatch
	}

	return result
}
