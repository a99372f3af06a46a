package application

import (
	"context"

	"fixtrack/domain/notify"
	"fixtrack/domain/repair"
)

// DashboardData bundles what the dashboard needs in one fetch.
type DashboardData struct {
	Summary   repair.Summary
	Engineers []string
}

// JobService provides job-sheet management operations.
type JobService interface {
	// CreateJob mints a sheet number, validates the intake and persists
	// a new Pending job.
	CreateJob(ctx context.Context, intake repair.Intake) (*repair.Job, error)

	GetJob(ctx context.Context, id string) (*repair.Job, error)

	// ListJobs returns jobs satisfying the filter, newest first.
	ListJobs(ctx context.Context, filter repair.Filter) ([]*repair.Job, error)

	// UpdateJob replaces the editable intake fields of an existing job.
	UpdateJob(ctx context.Context, id string, intake repair.Intake) (*repair.Job, error)

	// UpdateStatus moves a job to a new lifecycle status, optionally
	// recording the final cost.
	UpdateStatus(ctx context.Context, id string, status repair.Status, finalCost *float64) (*repair.Job, error)

	// Dashboard computes summary statistics and the engineer list.
	Dashboard(ctx context.Context) (*DashboardData, error)

	// NotificationLink composes the WhatsApp link for a job and event
	// on demand (manual resend from the dashboard).
	NotificationLink(ctx context.Context, id string, event notify.Event) (string, error)
}
