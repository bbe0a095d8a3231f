package document

import "time"

// InvoiceRow is one billed line on an invoice.
type InvoiceRow struct {
	Date     string  `json:"date"`
	Activity string  `json:"activity"`
	Hours    float64 `json:"hours"`
	Amount   float64 `json:"amount"`
}

// Invoice is the participant's invoice for one billing period.
type Invoice struct {
	InvoiceNumber int          `json:"invoice_number"`
	ParticipantID string       `json:"participant_id"`
	PayeeName     string       `json:"payee_name"`
	Period        time.Time    `json:"period"`
	Rows          []InvoiceRow `json:"rows"`
	TotalHours    float64      `json:"total_hours"`
	TotalAmount   float64      `json:"total_amount"`
}

// TimesheetRow is one session on a timesheet.
type TimesheetRow struct {
	Weekday         string `json:"weekday"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Topic           string `json:"topic"`
}

// Timesheet is the participant's session log for one billing period.
type Timesheet struct {
	ParticipantID string         `json:"participant_id"`
	DisplayName   string         `json:"display_name"`
	Period        time.Time      `json:"period"`
	Rows          []TimesheetRow `json:"rows"`
	TotalMinutes  int            `json:"total_minutes"`
}
