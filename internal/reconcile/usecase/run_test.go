package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"session-reconciler/internal/calendar"
	"session-reconciler/internal/document"
	"session-reconciler/internal/model"
	"session-reconciler/internal/reconcile"
	"session-reconciler/internal/roster"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) Info(ctx context.Context, args ...any)                   {}
func (mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (mockLogger) Error(ctx context.Context, args ...any)                  {}
func (mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type mockCalendarRepo struct {
	events map[string][]model.CalendarEvent
	errs   map[string]error
}

func (m *mockCalendarRepo) GetEvents(ctx context.Context, sc model.Scope, opts calendar.GetEventsOptions) ([]model.CalendarEvent, error) {
	if err := m.errs[opts.ParticipantID]; err != nil {
		return nil, err
	}
	return m.events[opts.ParticipantID], nil
}

type mockRosterRepo struct {
	participants map[string]roster.Participant
	nextNumber   int
}

func (m *mockRosterRepo) GetParticipant(ctx context.Context, id string) (roster.Participant, error) {
	p, ok := m.participants[id]
	if !ok {
		return roster.Participant{}, fmt.Errorf("%w: %s", roster.ErrParticipantNotFound, id)
	}
	return p, nil
}

func (m *mockRosterRepo) Rate(ctx context.Context, id string) (float64, error) {
	p, err := m.GetParticipant(ctx, id)
	if err != nil {
		return 0, err
	}
	if !p.HasRate() {
		return 0, fmt.Errorf("%w: %s", roster.ErrMissingRate, id)
	}
	return p.HourlyRate, nil
}

func (m *mockRosterRepo) NextInvoiceNumber(ctx context.Context, id string) (int, error) {
	if _, err := m.GetParticipant(ctx, id); err != nil {
		return 0, err
	}
	m.nextNumber++
	return m.nextNumber, nil
}

type mockDocumentRepo struct {
	invoices   []document.Invoice
	timesheets []document.Timesheet
	failFor    map[string]bool
}

func (m *mockDocumentRepo) StoreInvoice(ctx context.Context, inv document.Invoice) (string, error) {
	if m.failFor[inv.ParticipantID] {
		return "", errors.New("drive unavailable")
	}
	m.invoices = append(m.invoices, inv)
	return "Invoices/" + inv.ParticipantID, nil
}

func (m *mockDocumentRepo) StoreTimesheet(ctx context.Context, ts document.Timesheet) (string, error) {
	if m.failFor[ts.ParticipantID] {
		return "", errors.New("drive unavailable")
	}
	m.timesheets = append(m.timesheets, ts)
	return "Timesheets/" + ts.ParticipantID, nil
}

func testClaim(participant, date, start, end string) model.SessionClaim {
	return model.SessionClaim{
		ParticipantID: participant,
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		ActivityLabel: "Tutoring",
	}
}

func testEvent(id, participant, date, start, end string) model.CalendarEvent {
	return model.CalendarEvent{
		EventID:       id,
		ParticipantID: participant,
		Date:          date,
		StartTime:     start,
		EndTime:       end,
	}
}

func defaultRoster() *mockRosterRepo {
	return &mockRosterRepo{participants: map[string]roster.Participant{
		"7": {ID: "7", DisplayName: "jane doe", PayeeName: "Jane Doe", Email: "jane@example.com", HourlyRate: 24},
		"8": {ID: "8", DisplayName: "sam smith", PayeeName: "Sam Smith", HourlyRate: 30},
		"9": {ID: "9", DisplayName: "no rate"},
	}}
}

func newUseCase(t *testing.T, cal *mockCalendarRepo, ros *mockRosterRepo, docs *mockDocumentRepo) reconcile.UseCase {
	t.Helper()
	uc, err := New(mockLogger{}, reconcile.DefaultConfig("UTC"), cal, ros, docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return uc
}

func TestNew(t *testing.T) {
	t.Run("invalid configuration is fatal", func(t *testing.T) {
		cfg := reconcile.Config{Timezone: "UTC", OverlapThreshold: -1, ToleranceMinutes: 15}
		_, err := New(mockLogger{}, cfg, &mockCalendarRepo{}, defaultRoster(), &mockDocumentRepo{})
		if !errors.Is(err, reconcile.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{}

	t.Run("empty batch", func(t *testing.T) {
		uc := newUseCase(t, &mockCalendarRepo{}, defaultRoster(), &mockDocumentRepo{})

		_, err := uc.Run(ctx, sc, reconcile.RunInput{})
		if !errors.Is(err, reconcile.ErrNoClaims) {
			t.Fatalf("expected ErrNoClaims, got %v", err)
		}
	})

	t.Run("approved claim bills and delivers documents", func(t *testing.T) {
		cal := &mockCalendarRepo{events: map[string][]model.CalendarEvent{
			"7": {testEvent("e1", "7", "2024-03-01", "09:05", "12:00")},
		}}
		docs := &mockDocumentRepo{}
		uc := newUseCase(t, cal, defaultRoster(), docs)

		out, err := uc.Run(ctx, sc, reconcile.RunInput{Claims: []model.SessionClaim{
			testClaim("7", "2024-03-01", "09:00", "12:00"),
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.RunID == "" {
			t.Errorf("expected a run ID")
		}
		if len(out.Outcomes) != 1 || out.Outcomes[0].Decision != model.DecisionApproved {
			t.Fatalf("unexpected outcomes: %+v", out.Outcomes)
		}
		if out.Outcomes[0].ClaimRef == "" {
			t.Errorf("expected a claim ref assigned at intake")
		}

		if len(out.LineItems) != 1 {
			t.Fatalf("expected 1 line item, got %d", len(out.LineItems))
		}
		item := out.LineItems[0]
		if item.DurationMinutes != 175 || item.Amount != 70 {
			t.Errorf("unexpected line item: %+v", item)
		}

		if len(docs.invoices) != 1 || len(docs.timesheets) != 1 {
			t.Fatalf("expected invoice and timesheet stored, got %d/%d", len(docs.invoices), len(docs.timesheets))
		}
		if docs.invoices[0].InvoiceNumber != 1 {
			t.Errorf("expected invoice number 1, got %d", docs.invoices[0].InvoiceNumber)
		}
		if len(out.Documents) != 2 {
			t.Errorf("expected 2 document refs, got %+v", out.Documents)
		}
		if len(out.Failures) != 0 {
			t.Errorf("expected no failures, got %+v", out.Failures)
		}
	})

	t.Run("calendar failure isolates the participant", func(t *testing.T) {
		cal := &mockCalendarRepo{
			events: map[string][]model.CalendarEvent{
				"7": {testEvent("e1", "7", "2024-03-01", "09:00", "12:00")},
			},
			errs: map[string]error{"8": errors.New("upstream timeout")},
		}
		docs := &mockDocumentRepo{}
		uc := newUseCase(t, cal, defaultRoster(), docs)

		out, err := uc.Run(ctx, sc, reconcile.RunInput{Claims: []model.SessionClaim{
			testClaim("7", "2024-03-01", "09:00", "12:00"),
			testClaim("8", "2024-03-01", "09:00", "10:00"),
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Outcomes[0].Decision != model.DecisionApproved {
			t.Errorf("participant 7: expected Approved, got %s", out.Outcomes[0].Decision)
		}
		if out.Outcomes[1].Decision != model.DecisionFlagged {
			t.Errorf("participant 8: expected Flagged, got %s", out.Outcomes[1].Decision)
		}
		if len(out.Failures) != 1 || out.Failures[0].ParticipantID != "8" {
			t.Errorf("expected a failure for participant 8, got %+v", out.Failures)
		}
	})

	t.Run("missing rate blocks billing for that participant only", func(t *testing.T) {
		cal := &mockCalendarRepo{events: map[string][]model.CalendarEvent{
			"7": {testEvent("e1", "7", "2024-03-01", "09:00", "12:00")},
			"9": {testEvent("e2", "9", "2024-03-01", "09:00", "10:00")},
		}}
		docs := &mockDocumentRepo{}
		uc := newUseCase(t, cal, defaultRoster(), docs)

		out, err := uc.Run(ctx, sc, reconcile.RunInput{Claims: []model.SessionClaim{
			testClaim("7", "2024-03-01", "09:00", "12:00"),
			testClaim("9", "2024-03-01", "09:00", "10:00"),
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Both claims are approved; only the rated participant bills.
		for i, o := range out.Outcomes {
			if o.Decision != model.DecisionApproved {
				t.Errorf("outcome %d: expected Approved, got %s", i, o.Decision)
			}
		}
		if len(out.LineItems) != 1 || out.LineItems[0].ParticipantID != "7" {
			t.Errorf("expected only participant 7 billed, got %+v", out.LineItems)
		}
		if len(out.Failures) != 1 || out.Failures[0].ParticipantID != "9" {
			t.Errorf("expected a failure for participant 9, got %+v", out.Failures)
		}
		if len(docs.invoices) != 1 || docs.invoices[0].ParticipantID != "7" {
			t.Errorf("expected only participant 7 invoiced, got %+v", docs.invoices)
		}
	})

	t.Run("document delivery failure never loses outcomes", func(t *testing.T) {
		cal := &mockCalendarRepo{events: map[string][]model.CalendarEvent{
			"7": {testEvent("e1", "7", "2024-03-01", "09:00", "12:00")},
			"8": {testEvent("e2", "8", "2024-03-01", "09:00", "10:00")},
		}}
		docs := &mockDocumentRepo{failFor: map[string]bool{"7": true}}
		uc := newUseCase(t, cal, defaultRoster(), docs)

		out, err := uc.Run(ctx, sc, reconcile.RunInput{Claims: []model.SessionClaim{
			testClaim("7", "2024-03-01", "09:00", "12:00"),
			testClaim("8", "2024-03-01", "09:00", "10:00"),
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(out.Outcomes) != 2 {
			t.Fatalf("expected 2 outcomes, got %d", len(out.Outcomes))
		}
		// Invoice and timesheet both failed for participant 7.
		if len(out.Failures) != 2 {
			t.Errorf("expected 2 delivery failures, got %+v", out.Failures)
		}
		if len(docs.invoices) != 1 || docs.invoices[0].ParticipantID != "8" {
			t.Errorf("expected participant 8's invoice stored, got %+v", docs.invoices)
		}
	})
}
