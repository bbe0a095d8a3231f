package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/viper"

	"session-reconciler/internal/roster"
	"session-reconciler/pkg/log"
)

// fileRepository serves the roster from a YAML sheet loaded once at startup.
// Invoice numbers continue from the sheet's last recorded value and are
// allocated in memory for the life of the process.
type fileRepository struct {
	l log.Logger

	mu           sync.Mutex
	participants map[string]roster.Participant
	lastInvoice  map[string]int
}

// New loads the roster sheet at path and returns a repository over it.
func New(l log.Logger, path string) (roster.Repository, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading roster sheet: %w", err)
	}

	repo := &fileRepository{
		l:            l,
		participants: make(map[string]roster.Participant),
		lastInvoice:  make(map[string]int),
	}

	raw := v.Get("participants")
	entries, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("roster sheet %s has no participants section", path)
	}

	for i, e := range entries {
		entry, ok := e.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("roster sheet: participant %d is not a mapping", i)
		}

		p := roster.Participant{
			ID:          getStringFromMap(entry, "id"),
			DisplayName: getStringFromMap(entry, "name"),
			Email:       getStringFromMap(entry, "email"),
			HourlyRate:  getFloatFromMap(entry, "hourly_rate"),
			PayeeName:   getStringFromMap(entry, "payee_name"),
		}
		if p.ID == "" {
			return nil, fmt.Errorf("roster sheet: participant %d: id is required", i)
		}
		if p.PayeeName == "" {
			p.PayeeName = p.DisplayName
		}

		repo.participants[p.ID] = p
		repo.lastInvoice[p.ID] = getIntFromMap(entry, "last_invoice_number")
	}

	return repo, nil
}

func (r *fileRepository) GetParticipant(ctx context.Context, participantID string) (roster.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[participantID]
	if !ok {
		return roster.Participant{}, fmt.Errorf("%w: %s", roster.ErrParticipantNotFound, participantID)
	}
	return p, nil
}

func (r *fileRepository) Rate(ctx context.Context, participantID string) (float64, error) {
	p, err := r.GetParticipant(ctx, participantID)
	if err != nil {
		return 0, err
	}
	if !p.HasRate() {
		return 0, fmt.Errorf("%w: %s", roster.ErrMissingRate, participantID)
	}
	return p.HourlyRate, nil
}

func (r *fileRepository) NextInvoiceNumber(ctx context.Context, participantID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[participantID]; !ok {
		return 0, fmt.Errorf("%w: %s", roster.ErrParticipantNotFound, participantID)
	}

	r.lastInvoice[participantID]++
	return r.lastInvoice[participantID], nil
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getFloatFromMap(m map[string]interface{}, key string) float64 {
	if val, ok := m[key]; ok {
		switch n := val.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return 0
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		switch n := val.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return 0
}
