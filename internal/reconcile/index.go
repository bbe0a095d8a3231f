package reconcile

import (
	"sort"

	"session-reconciler/internal/model"
	"session-reconciler/pkg/timenorm"
)

type indexKey struct {
	participantID string
	date          string
}

// EventCandidate pairs a calendar event with its normalized interval.
type EventCandidate struct {
	Event    model.CalendarEvent
	Interval timenorm.Interval
}

// Index is a read-only lookup of calendar events keyed by participant and
// date. Built once per batch; lookups never mutate it.
type Index struct {
	entries map[indexKey][]EventCandidate
	skipped []SkippedEvent
}

// BuildIndex normalizes the given events and indexes them by
// (participant, date). Events whose interval fails normalization are
// dropped and recorded as skipped; they cannot support any claim.
func BuildIndex(events []model.CalendarEvent, norm *timenorm.Normalizer) *Index {
	ix := &Index{entries: make(map[indexKey][]EventCandidate)}

	for _, ev := range events {
		iv, err := norm.Normalize(ev.Date, ev.StartTime, ev.EndTime)
		if err != nil {
			ix.skipped = append(ix.skipped, SkippedEvent{EventID: ev.EventID, Reason: err.Error()})
			continue
		}
		key := indexKey{participantID: ev.ParticipantID, date: ev.Date}
		ix.entries[key] = append(ix.entries[key], EventCandidate{Event: ev, Interval: iv})
	}

	for key := range ix.entries {
		bucket := ix.entries[key]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Interval.StartUTC.Before(bucket[j].Interval.StartUTC)
		})
	}

	return ix
}

// Lookup returns the candidates for (participant, date), ordered by StartUTC
// ascending. An absent key yields an empty slice, not an error.
func (ix *Index) Lookup(participantID, date string) []EventCandidate {
	return ix.entries[indexKey{participantID: participantID, date: date}]
}

// Skipped returns the events dropped during construction.
func (ix *Index) Skipped() []SkippedEvent {
	return ix.skipped
}

// Len returns the number of indexed events.
func (ix *Index) Len() int {
	total := 0
	for _, bucket := range ix.entries {
		total += len(bucket)
	}
	return total
}
