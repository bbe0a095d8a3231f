package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"session-reconciler/internal/calendar"
	"session-reconciler/internal/model"
	"session-reconciler/pkg/gcalendar"
	"session-reconciler/pkg/log"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

// Config configures the Google Calendar backed event repository.
type Config struct {
	CalendarID string
	Timezone   string // IANA zone the service declares its local times in
	CacheSize  int
	CacheTTL   time.Duration
}

type gcalRepository struct {
	l        log.Logger
	client   *gcalendar.Client
	cfg      Config
	location *time.Location
	cache    *expirable.LRU[string, []model.CalendarEvent]
}

// New builds an EventRepository over the Google Calendar client. Fetches are
// cached per participant and period so repeated reconciliation runs within
// the TTL do not refetch.
func New(l log.Logger, client *gcalendar.Client, cfg Config) (calendar.EventRepository, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", cfg.Timezone, err)
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &gcalRepository{
		l:        l,
		client:   client,
		cfg:      cfg,
		location: loc,
		cache:    expirable.NewLRU[string, []model.CalendarEvent](size, nil, ttl),
	}, nil
}

func (r *gcalRepository) GetEvents(ctx context.Context, sc model.Scope, opts calendar.GetEventsOptions) ([]model.CalendarEvent, error) {
	key := cacheKey(opts)
	if cached, ok := r.cache.Get(key); ok {
		r.l.Debugf(ctx, "calendar: cache hit for participant %s", opts.ParticipantID)
		return cached, nil
	}

	raw, err := r.client.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: r.cfg.CalendarID,
		TimeMin:    opts.From,
		TimeMax:    opts.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}

	events := make([]model.CalendarEvent, 0, len(raw))
	for _, ev := range raw {
		if ev.AllDay {
			continue
		}
		if opts.Email != "" && !hasAttendee(ev, opts.Email) {
			continue
		}

		start := ev.StartTime.In(r.location)
		end := ev.EndTime.In(r.location)
		events = append(events, model.CalendarEvent{
			EventID:       ev.ID,
			ParticipantID: opts.ParticipantID,
			Date:          start.Format("2006-01-02"),
			StartTime:     start.Format("15:04"),
			EndTime:       end.Format("15:04"),
			Subject:       ev.Summary,
		})
	}

	r.l.Infof(ctx, "calendar: fetched %d events for participant %s", len(events), opts.ParticipantID)
	r.cache.Add(key, events)

	return events, nil
}

func hasAttendee(ev *gcalendar.Event, email string) bool {
	for _, a := range ev.Attendees {
		if a == email {
			return true
		}
	}
	return false
}

func cacheKey(opts calendar.GetEventsOptions) string {
	return fmt.Sprintf("%s|%d|%d", opts.ParticipantID, opts.From.Unix(), opts.To.Unix())
}
