package contracts

import (
	"context"

	"fixtrack/domain/staff"
)

// StaffRepository defines operations for staff account lookup.
type StaffRepository interface {
	// FindByCredentials returns the staff record matching the exact
	// username/password pair, or ErrNotFound. Credentials are compared
	// verbatim against the stored row; hardening is out of scope.
	FindByCredentials(ctx context.Context, username, password string) (*staff.Staff, error)

	ListStaff(ctx context.Context) ([]*staff.Staff, error)
}
