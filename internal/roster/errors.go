package roster

import "errors"

var (
	ErrParticipantNotFound = errors.New("participant not found in roster")
	// ErrMissingRate blocks billing for the affected participant only;
	// other participants in the same run are unaffected.
	ErrMissingRate = errors.New("no hourly rate configured for participant")
)
