package billing

import (
	"context"
	"errors"
	"math"
	"sort"

	"session-reconciler/internal/model"
	"session-reconciler/internal/reconcile"
	"session-reconciler/internal/roster"
	"session-reconciler/pkg/log"
)

// Builder turns approved sessions into billing line items using the roster's
// hourly rates. One line item per (participant, date, activity) group.
type Builder struct {
	l      log.Logger
	roster roster.Repository
}

func NewBuilder(l log.Logger, r roster.Repository) *Builder {
	return &Builder{l: l, roster: r}
}

// BlockedParticipant is a participant excluded from billing for this run.
// The exclusion covers that participant only.
type BlockedParticipant struct {
	ParticipantID string
	Reason        string
}

type groupKey struct {
	participantID string
	date          string
	activity      string
}

// Build groups the approved sessions and prices them. A participant with no
// agreed rate is reported as blocked and produces no line items; everyone
// else bills normally. Line items come back ordered by participant, date,
// then activity.
func (b *Builder) Build(ctx context.Context, approved []reconcile.ApprovedSession) ([]model.LineItem, []BlockedParticipant) {
	minutes := make(map[groupKey]int)
	for _, s := range approved {
		key := groupKey{participantID: s.ParticipantID, date: s.Date, activity: s.ActivityLabel}
		minutes[key] += s.DurationMinutes
	}

	rates := make(map[string]float64)
	var blocked []BlockedParticipant
	blockedSet := make(map[string]bool)

	for key := range minutes {
		id := key.participantID
		if _, seen := rates[id]; seen || blockedSet[id] {
			continue
		}
		rate, err := b.roster.Rate(ctx, id)
		if err != nil {
			if errors.Is(err, roster.ErrMissingRate) || errors.Is(err, roster.ErrParticipantNotFound) {
				b.l.Warnf(ctx, "billing: participant %s blocked: %v", id, err)
				blockedSet[id] = true
				blocked = append(blocked, BlockedParticipant{ParticipantID: id, Reason: err.Error()})
				continue
			}
			b.l.Errorf(ctx, "billing: rate lookup for participant %s: %v", id, err)
			blockedSet[id] = true
			blocked = append(blocked, BlockedParticipant{ParticipantID: id, Reason: err.Error()})
			continue
		}
		rates[id] = rate
	}

	items := make([]model.LineItem, 0, len(minutes))
	for key, mins := range minutes {
		rate, ok := rates[key.participantID]
		if !ok {
			continue
		}
		items = append(items, model.LineItem{
			ParticipantID:   key.participantID,
			Date:            key.date,
			DurationMinutes: mins,
			ActivityLabel:   key.activity,
			Amount:          roundPence(float64(mins) / 60 * rate),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ParticipantID != b.ParticipantID {
			return a.ParticipantID < b.ParticipantID
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.ActivityLabel < b.ActivityLabel
	})
	sort.Slice(blocked, func(i, j int) bool {
		return blocked[i].ParticipantID < blocked[j].ParticipantID
	})

	return items, blocked
}

// roundPence rounds a monetary amount to two decimal places.
func roundPence(amount float64) float64 {
	return math.Round(amount*100) / 100
}
