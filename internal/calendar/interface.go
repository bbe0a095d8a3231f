package calendar

import (
	"context"
	"time"

	"session-reconciler/internal/model"
)

// GetEventsOptions selects the events to fetch for one participant.
type GetEventsOptions struct {
	ParticipantID string
	Email         string // attendee filter; empty matches all events
	From          time.Time
	To            time.Time
}

// EventRepository fetches authoritative calendar events for matching.
type EventRepository interface {
	// GetEvents returns the participant's events in [From, To), expressed
	// as naive local times in the service's declared timezone.
	GetEvents(ctx context.Context, sc model.Scope, opts GetEventsOptions) ([]model.CalendarEvent, error)
}
