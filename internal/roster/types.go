package roster

// Participant is one person on the roster sheet: identity, the display name
// used for document folders, and the agreed hourly rate.
type Participant struct {
	ID          string
	DisplayName string
	Email       string
	HourlyRate  float64 // 0 means no rate agreed yet
	PayeeName   string  // name printed on invoices; DisplayName when empty
}

// HasRate reports whether billing amounts can be computed for the participant.
func (p Participant) HasRate() bool {
	return p.HourlyRate > 0
}
