package roster

import "context"

// Repository provides read access to the roster sheet and allocation of
// invoice numbers.
type Repository interface {
	// GetParticipant returns the roster entry for the given participant.
	// Returns ErrParticipantNotFound when the participant is not listed.
	GetParticipant(ctx context.Context, participantID string) (Participant, error)

	// Rate returns the participant's hourly rate.
	// Returns ErrMissingRate when the participant has no agreed rate.
	Rate(ctx context.Context, participantID string) (float64, error)

	// NextInvoiceNumber allocates the next invoice number for the
	// participant. Numbers are strictly increasing per participant.
	NextInvoiceNumber(ctx context.Context, participantID string) (int, error)
}
