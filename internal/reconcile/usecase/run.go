package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"session-reconciler/internal/calendar"
	"session-reconciler/internal/model"
	"session-reconciler/internal/reconcile"
	"session-reconciler/pkg/timenorm"
)

// Run reconciles one submission batch end to end: fetch calendar evidence
// per participant, match and decide every claim, price the approved set, and
// deliver invoice and timesheet documents. Failures past the decision stage
// degrade per participant; the outcome set always covers every claim.
func (uc *implUseCase) Run(ctx context.Context, sc model.Scope, input reconcile.RunInput) (reconcile.RunOutput, error) {
	if len(input.Claims) == 0 {
		return reconcile.RunOutput{}, reconcile.ErrNoClaims
	}

	runID := uuid.NewString()
	uc.l.Infof(ctx, "reconciliation run %s: %d claims", runID, len(input.Claims))

	claims := make([]model.SessionClaim, len(input.Claims))
	copy(claims, input.Claims)
	for i := range claims {
		if claims[i].Ref == "" {
			claims[i].Ref = uuid.NewString()
		}
		if claims[i].Source == "" {
			claims[i].Source = model.SourceUserSubmitted
		}
	}

	events, failures := uc.fetchEvents(ctx, sc, claims)

	report := uc.engine.Reconcile(claims, events)
	for _, skipped := range report.SkippedEvents {
		uc.l.Warnf(ctx, "run %s: calendar event %s skipped: %s", runID, skipped.EventID, skipped.Reason)
	}

	items, blocked := uc.billing.Build(ctx, report.Approved)
	for _, b := range blocked {
		failures = append(failures, reconcile.ParticipantFailure{
			ParticipantID: b.ParticipantID,
			Reason:        b.Reason,
		})
	}

	docs, docFailures := uc.generateDocuments(ctx, report, items)
	failures = append(failures, docFailures...)

	return reconcile.RunOutput{
		RunID:     runID,
		Outcomes:  report.Outcomes,
		LineItems: items,
		Failures:  failures,
		Documents: docs,
	}, nil
}

// fetchEvents fetches each participant's calendar window concurrently.
// A failed fetch surfaces as a participant failure; that participant's
// claims then decide against an empty candidate set.
func (uc *implUseCase) fetchEvents(ctx context.Context, sc model.Scope, claims []model.SessionClaim) ([]model.CalendarEvent, []reconcile.ParticipantFailure) {
	groups := groupByParticipant(claims)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		events   []model.CalendarEvent
		failures []reconcile.ParticipantFailure
	)

	for participantID, group := range groups {
		from, to, err := claimPeriod(group)
		if err != nil {
			// Every claim in the group is malformed; the matcher reports
			// them individually.
			continue
		}

		wg.Add(1)
		go func(participantID string, from, to time.Time) {
			defer wg.Done()

			email := ""
			if p, err := uc.rosterRepo.GetParticipant(ctx, participantID); err == nil {
				email = p.Email
			}

			fetched, err := uc.calRepo.GetEvents(ctx, sc, calendar.GetEventsOptions{
				ParticipantID: participantID,
				Email:         email,
				From:          from,
				To:            to,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.l.Errorf(ctx, "calendar fetch for participant %s: %v", participantID, err)
				failures = append(failures, reconcile.ParticipantFailure{
					ParticipantID: participantID,
					Reason:        "calendar fetch failed: " + err.Error(),
				})
				return
			}
			events = append(events, fetched...)
		}(participantID, from, to)
	}

	wg.Wait()
	return events, failures
}

// generateDocuments renders and stores an invoice and timesheet per billed
// participant. A failure for one participant never blocks the others.
func (uc *implUseCase) generateDocuments(ctx context.Context, report reconcile.Report, items []model.LineItem) ([]reconcile.DocumentRef, []reconcile.ParticipantFailure) {
	billedIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.ParticipantID] {
			seen[item.ParticipantID] = true
			billedIDs = append(billedIDs, item.ParticipantID)
		}
	}
	sort.Strings(billedIDs)

	var (
		docs     []reconcile.DocumentRef
		failures []reconcile.ParticipantFailure
	)

	for _, id := range billedIDs {
		period, ok := participantPeriod(id, items)
		if !ok {
			continue
		}

		p, err := uc.rosterRepo.GetParticipant(ctx, id)
		if err != nil {
			failures = append(failures, reconcile.ParticipantFailure{ParticipantID: id, Reason: err.Error()})
			continue
		}

		number, err := uc.rosterRepo.NextInvoiceNumber(ctx, id)
		if err != nil {
			failures = append(failures, reconcile.ParticipantFailure{ParticipantID: id, Reason: err.Error()})
			continue
		}

		inv := uc.docs.BuildInvoice(p, number, period, items)
		ts := uc.docs.BuildTimesheet(p, period, report.Approved)

		if path, err := uc.docRepo.StoreInvoice(ctx, inv); err != nil {
			uc.l.Errorf(ctx, "store invoice for participant %s: %v", id, err)
			failures = append(failures, reconcile.ParticipantFailure{ParticipantID: id, Reason: "invoice delivery failed: " + err.Error()})
		} else {
			docs = append(docs, reconcile.DocumentRef{ParticipantID: id, Kind: "invoice", Path: path})
		}

		if path, err := uc.docRepo.StoreTimesheet(ctx, ts); err != nil {
			uc.l.Errorf(ctx, "store timesheet for participant %s: %v", id, err)
			failures = append(failures, reconcile.ParticipantFailure{ParticipantID: id, Reason: "timesheet delivery failed: " + err.Error()})
		} else {
			docs = append(docs, reconcile.DocumentRef{ParticipantID: id, Kind: "timesheet", Path: path})
		}
	}

	return docs, failures
}

// participantPeriod anchors the document period on the participant's
// earliest billed date.
func participantPeriod(participantID string, items []model.LineItem) (time.Time, bool) {
	var earliest time.Time
	for _, item := range items {
		if item.ParticipantID != participantID {
			continue
		}
		day, err := time.Parse(timenorm.DateLayout, item.Date)
		if err != nil {
			continue
		}
		if earliest.IsZero() || day.Before(earliest) {
			earliest = day
		}
	}
	return earliest, !earliest.IsZero()
}
