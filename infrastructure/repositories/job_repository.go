package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fixtrack/database"
	"fixtrack/domain/contracts"
	"fixtrack/domain/repair"
)

// issueDelimiter joins the issue list into the single TEXT column the
// jobs table stores. The delimited form never leaves this package.
const issueDelimiter = ", "

const jobColumns = `id, job_sheet_number, customer_name, contact_number, device_type,
	brand_name, issues, attended_by, estimated_cost, final_cost, status,
	created_at, updated_at, completed_at`

// SqliteJobRepository implements contracts.JobRepository over the
// read/write-split SQLite database.
type SqliteJobRepository struct {
	*BaseRepository
}

// NewSqliteJobRepository creates a new job repository.
func NewSqliteJobRepository(db *database.Database) contracts.JobRepository {
	return &SqliteJobRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ListJobs retrieves all jobs, newest first.
func (r *SqliteJobRepository) ListJobs(ctx context.Context) ([]*repair.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs ORDER BY created_at DESC, job_sheet_number DESC", jobColumns)

	rows, err := r.ReadDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*repair.Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, nil
}

// GetJob retrieves a single job by its opaque identifier.
func (r *SqliteJobRepository) GetJob(ctx context.Context, id string) (*repair.Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE id = ?", jobColumns)

	job, err := r.scanJob(r.ReadDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}

	return job, nil
}

// InsertJob persists a new job. A sheet number collision from a
// concurrent mint surfaces as ErrDuplicateJobSheetNumber.
func (r *SqliteJobRepository) InsertJob(ctx context.Context, job *repair.Job) error {
	_, err := r.WriteDB().ExecContext(ctx, `
		INSERT INTO jobs (
			id, job_sheet_number, customer_name, contact_number, device_type,
			brand_name, issues, attended_by, estimated_cost, final_cost, status,
			created_at, updated_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.JobSheetNumber,
		job.CustomerName,
		job.ContactNumber,
		string(job.DeviceType),
		job.BrandName,
		joinIssues(job.Issues),
		job.AttendedBy,
		job.EstimatedCost,
		r.ToNullFloat64(job.FinalCost),
		string(job.Status),
		job.CreatedAt,
		job.UpdatedAt,
		r.ToNullTime(job.CompletedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "jobs.job_sheet_number") {
			return contracts.ErrDuplicateJobSheetNumber
		}
		return fmt.Errorf("insert job %s: %w", job.JobSheetNumber, err)
	}

	return nil
}

// UpdateJob persists all mutable fields of an existing job.
func (r *SqliteJobRepository) UpdateJob(ctx context.Context, job *repair.Job) error {
	result, err := r.WriteDB().ExecContext(ctx, `
		UPDATE jobs SET
			customer_name = ?,
			contact_number = ?,
			device_type = ?,
			brand_name = ?,
			issues = ?,
			attended_by = ?,
			estimated_cost = ?,
			final_cost = ?,
			status = ?,
			updated_at = ?,
			completed_at = ?
		WHERE id = ?`,
		job.CustomerName,
		job.ContactNumber,
		string(job.DeviceType),
		job.BrandName,
		joinIssues(job.Issues),
		job.AttendedBy,
		job.EstimatedCost,
		r.ToNullFloat64(job.FinalCost),
		string(job.Status),
		job.UpdatedAt,
		r.ToNullTime(job.CompletedAt),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job %s: %w", job.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %s: %w", job.ID, err)
	}
	if affected == 0 {
		return contracts.ErrNotFound
	}

	return nil
}

// ListJobSheetNumbers returns every sheet number ever minted.
func (r *SqliteJobRepository) ListJobSheetNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.ReadDB().QueryContext(ctx, "SELECT job_sheet_number FROM jobs")
	if err != nil {
		return nil, fmt.Errorf("list job sheet numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("scan job sheet number: %w", err)
		}
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list job sheet numbers: %w", err)
	}

	return numbers, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SqliteJobRepository) scanJob(row rowScanner) (*repair.Job, error) {
	var (
		job         repair.Job
		deviceType  string
		issues      string
		status      string
		finalCost   sql.NullFloat64
		completedAt sql.NullTime
	)

	err := row.Scan(
		&job.ID,
		&job.JobSheetNumber,
		&job.CustomerName,
		&job.ContactNumber,
		&deviceType,
		&job.BrandName,
		&issues,
		&job.AttendedBy,
		&job.EstimatedCost,
		&finalCost,
		&status,
		&job.CreatedAt,
		&job.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.DeviceType = repair.DeviceType(deviceType)
	job.Issues = splitIssues(issues)
	job.Status = repair.Status(status)
	job.FinalCost = r.FromNullFloat64(finalCost)
	job.CompletedAt = r.FromNullTime(completedAt)

	return &job, nil
}

// joinIssues converts the typed issue list to the delimited storage form.
func joinIssues(issues []string) string {
	return strings.Join(issues, issueDelimiter)
}

// splitIssues converts the delimited storage form back to the typed
// list, trimming entries and dropping empties left by older rows.
func splitIssues(stored string) []string {
	parts := strings.Split(stored, ",")
	issues := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		issues = append(issues, trimmed)
	}
	return issues
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure
// on the named column.
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
