package repair

import "errors"

var (
	// ErrInvalidJob marks a job that violates an intake invariant.
	ErrInvalidJob = errors.New("invalid job")

	// ErrTransitionNotAllowed marks a status change the active policy rejects.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)
