package document

import (
	"fmt"
	"math"
	"sort"
	"time"

	"session-reconciler/internal/model"
	"session-reconciler/internal/reconcile"
	"session-reconciler/internal/roster"
)

// Builder renders invoice and timesheet payloads from reconciled billing data.
type Builder struct {
	location *time.Location
}

func NewBuilder(timezone string) (*Builder, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid document timezone %q: %w", timezone, err)
	}
	return &Builder{location: loc}, nil
}

// BuildInvoice renders the participant's invoice from their line items.
// Items belonging to other participants are ignored.
func (b *Builder) BuildInvoice(p roster.Participant, number int, period time.Time, items []model.LineItem) Invoice {
	inv := Invoice{
		InvoiceNumber: number,
		ParticipantID: p.ID,
		PayeeName:     p.PayeeName,
		Period:        period,
	}

	for _, item := range items {
		if item.ParticipantID != p.ID {
			continue
		}
		hours := roundHundredth(float64(item.DurationMinutes) / 60)
		inv.Rows = append(inv.Rows, InvoiceRow{
			Date:     item.Date,
			Activity: item.ActivityLabel,
			Hours:    hours,
			Amount:   item.Amount,
		})
		inv.TotalHours += hours
		inv.TotalAmount += item.Amount
	}

	inv.TotalHours = roundHundredth(inv.TotalHours)
	inv.TotalAmount = roundHundredth(inv.TotalAmount)

	sort.Slice(inv.Rows, func(i, j int) bool {
		if inv.Rows[i].Date != inv.Rows[j].Date {
			return inv.Rows[i].Date < inv.Rows[j].Date
		}
		return inv.Rows[i].Activity < inv.Rows[j].Activity
	})

	return inv
}

// BuildTimesheet renders the participant's session log from their approved
// sessions. Sessions belonging to other participants are ignored.
func (b *Builder) BuildTimesheet(p roster.Participant, period time.Time, sessions []reconcile.ApprovedSession) Timesheet {
	ts := Timesheet{
		ParticipantID: p.ID,
		DisplayName:   p.DisplayName,
		Period:        period,
	}

	for _, s := range sessions {
		if s.ParticipantID != p.ID {
			continue
		}

		weekday := ""
		if day, err := time.ParseInLocation("2006-01-02", s.Date, b.location); err == nil {
			weekday = day.Weekday().String()
		}

		ts.Rows = append(ts.Rows, TimesheetRow{
			Weekday:         weekday,
			Date:            s.Date,
			StartTime:       s.Interval.StartUTC.In(b.location).Format("15:04"),
			EndTime:         s.Interval.EndUTC.In(b.location).Format("15:04"),
			DurationMinutes: s.DurationMinutes,
			Topic:           s.ActivityLabel,
		})
		ts.TotalMinutes += s.DurationMinutes
	}

	sort.Slice(ts.Rows, func(i, j int) bool {
		if ts.Rows[i].Date != ts.Rows[j].Date {
			return ts.Rows[i].Date < ts.Rows[j].Date
		}
		return ts.Rows[i].StartTime < ts.Rows[j].StartTime
	})

	return ts
}

func roundHundredth(v float64) float64 {
	return math.Round(v*100) / 100
}
