package contracts

import (
	"context"

	"fixtrack/domain/repair"
)

// JobRepository defines operations for job-sheet persistence.
//
// ListJobSheetNumbers exists so sheet number minting stays a
// read-then-write over the full number set; a store with an atomic
// counter can satisfy the same interface without changing callers.
type JobRepository interface {
	ListJobs(ctx context.Context) ([]*repair.Job, error)
	GetJob(ctx context.Context, id string) (*repair.Job, error)
	InsertJob(ctx context.Context, job *repair.Job) error
	UpdateJob(ctx context.Context, job *repair.Job) error
	ListJobSheetNumbers(ctx context.Context) ([]string, error)
}
