package usecase

import (
	"fmt"
	"time"

	"session-reconciler/internal/model"
	"session-reconciler/pkg/timenorm"
)

// groupByParticipant splits the claims by participant, preserving submission
// order within each group.
func groupByParticipant(claims []model.SessionClaim) map[string][]model.SessionClaim {
	groups := make(map[string][]model.SessionClaim)
	for _, c := range claims {
		groups[c.ParticipantID] = append(groups[c.ParticipantID], c)
	}
	return groups
}

// claimPeriod returns the fetch window covering all the claims' dates:
// midnight of the earliest date through midnight after the latest.
func claimPeriod(claims []model.SessionClaim) (time.Time, time.Time, error) {
	var from, to time.Time
	for _, c := range claims {
		day, err := time.Parse(timenorm.DateLayout, c.Date)
		if err != nil {
			continue
		}
		if from.IsZero() || day.Before(from) {
			from = day
		}
		if to.IsZero() || day.After(to) {
			to = day
		}
	}
	if from.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("no parseable claim dates")
	}
	return from, to.Add(24 * time.Hour), nil
}
