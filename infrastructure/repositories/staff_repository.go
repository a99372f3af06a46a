package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fixtrack/database"
	"fixtrack/domain/contracts"
	"fixtrack/domain/staff"
)

// SqliteStaffRepository implements contracts.StaffRepository.
type SqliteStaffRepository struct {
	*BaseRepository
}

// NewSqliteStaffRepository creates a new staff repository.
func NewSqliteStaffRepository(db *database.Database) contracts.StaffRepository {
	return &SqliteStaffRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// FindByCredentials looks up the staff row matching the exact
// username/password pair. The comparison is verbatim; a miss returns
// ErrNotFound with no further information.
func (r *SqliteStaffRepository) FindByCredentials(ctx context.Context, username, password string) (*staff.Staff, error) {
	var (
		member staff.Staff
		role   string
	)

	err := r.ReadDB().QueryRowContext(ctx,
		"SELECT id, name, username, password, role FROM staff WHERE username = ? AND password = ?",
		username, password,
	).Scan(&member.ID, &member.Name, &member.Username, &member.Password, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("find staff by credentials: %w", err)
	}

	member.Role = staff.Role(role)
	return &member, nil
}

// ListStaff returns all staff members ordered by name.
func (r *SqliteStaffRepository) ListStaff(ctx context.Context) ([]*staff.Staff, error) {
	rows, err := r.ReadDB().QueryContext(ctx,
		"SELECT id, name, username, password, role FROM staff ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var members []*staff.Staff
	for rows.Next() {
		var (
			member staff.Staff
			role   string
		)
		if err := rows.Scan(&member.ID, &member.Name, &member.Username, &member.Password, &role); err != nil {
			return nil, fmt.Errorf("scan staff row: %w", err)
		}
		member.Role = staff.Role(role)
		members = append(members, &member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	return members, nil
}
