package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrNotFound occurs when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateJobSheetNumber occurs when an insert collides with an
	// existing sheet number. Concurrent minting can legitimately race
	// to the same next number; the store's uniqueness constraint turns
	// that race into this error instead of silent duplication.
	ErrDuplicateJobSheetNumber = errors.New("duplicate job sheet number")
)
