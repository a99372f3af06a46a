package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixtrack/domain/contracts"
	domainevents "fixtrack/domain/events"
	"fixtrack/domain/notify"
	"fixtrack/domain/repair"
	"fixtrack/infrastructure/telemetry"
	"fixtrack/logging"
)

// EventPublisher publishes domain events.
type EventPublisher interface {
	PublishJobCreated(event domainevents.JobCreatedEvent)
	PublishJobStatusChanged(event domainevents.JobStatusChangedEvent)
}

// JobServiceImpl implements job-sheet orchestration.
type JobServiceImpl struct {
	jobRepo   contracts.JobRepository
	composer  *notify.Composer
	policy    *repair.TransitionPolicy
	eventBus  EventPublisher
	jobPrefix string
	logger    *logging.Logger
	now       func() time.Time
}

// NewJobService creates a new job service.
func NewJobService(
	jobRepo contracts.JobRepository,
	composer *notify.Composer,
	policy *repair.TransitionPolicy,
	eventBus EventPublisher,
	jobPrefix string,
) JobService {
	return &JobServiceImpl{
		jobRepo:   jobRepo,
		composer:  composer,
		policy:    policy,
		eventBus:  eventBus,
		jobPrefix: jobPrefix,
		logger:    logging.Default().WithComponent("job_service"),
		now:       time.Now,
	}
}

// CreateJob mints the next sheet number and persists a new Pending job.
//
// Minting is read-then-write over the full number set, so two staff
// members can race to the same number. The store's uniqueness
// constraint catches the collision and the mint is retried once with a
// fresh read; a second collision is surfaced to the caller.
func (s *JobServiceImpl) CreateJob(ctx context.Context, intake repair.Intake) (*repair.Job, error) {
	factory := &repair.JobFactory{}

	for attempt := 0; attempt < 2; attempt++ {
		numbers, err := s.jobRepo.ListJobSheetNumbers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to mint job sheet number: %w", err)
		}

		sheetNumber := repair.NextJobSheetNumber(numbers, s.jobPrefix)

		job, err := factory.CreateJob(intake, sheetNumber, s.now())
		if err != nil {
			return nil, err
		}

		if err := s.jobRepo.InsertJob(ctx, job); err != nil {
			if errors.Is(err, contracts.ErrDuplicateJobSheetNumber) && attempt == 0 {
				s.logger.Warn("Job sheet number collision, retrying mint",
					"job_sheet_number", sheetNumber)
				continue
			}
			return nil, fmt.Errorf("failed to save job: %w", err)
		}

		telemetry.AddJobCreated(ctx)
		s.logger.Job("Job created", job.JobSheetNumber,
			"customer", job.CustomerName,
			"device_type", job.DeviceType,
			"attended_by", job.AttendedBy)

		s.eventBus.PublishJobCreated(domainevents.JobCreatedEvent{
			Job:       job,
			Timestamp: s.now(),
		})

		return job, nil
	}

	return nil, fmt.Errorf("failed to save job: %w", contracts.ErrDuplicateJobSheetNumber)
}

// GetJob retrieves a single job.
func (s *JobServiceImpl) GetJob(ctx context.Context, id string) (*repair.Job, error) {
	return s.jobRepo.GetJob(ctx, id)
}

// ListJobs fetches all jobs and filters them in memory. The store is
// the source of truth; every call re-reads it rather than caching.
func (s *JobServiceImpl) ListJobs(ctx context.Context, filter repair.Filter) ([]*repair.Job, error) {
	jobs, err := s.jobRepo.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	return filter.Apply(jobs), nil
}

// UpdateJob replaces the editable intake fields of an existing job.
// Sheet number, status and the lifecycle timestamps are not touched.
func (s *JobServiceImpl) UpdateJob(ctx context.Context, id string, intake repair.Intake) (*repair.Job, error) {
	job, err := s.jobRepo.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}

	issues, err := repair.NormalizeIssues(intake.Issues)
	if err != nil {
		return nil, err
	}

	job.CustomerName = intake.CustomerName
	job.ContactNumber = intake.ContactNumber
	job.DeviceType = intake.DeviceType
	job.BrandName = intake.BrandName
	job.Issues = issues
	job.AttendedBy = intake.AttendedBy
	job.EstimatedCost = intake.EstimatedCost
	job.UpdatedAt = s.now()

	if err := job.Validate(); err != nil {
		return nil, err
	}

	if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.logger.Job("Job updated", job.JobSheetNumber)
	return job, nil
}

// UpdateStatus moves a job to a new lifecycle status.
func (s *JobServiceImpl) UpdateStatus(ctx context.Context, id string, status repair.Status, finalCost *float64) (*repair.Job, error) {
	job, err := s.jobRepo.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStatus := job.Status

	if err := job.SetStatus(status, finalCost, s.policy, s.now()); err != nil {
		return nil, err
	}

	if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	telemetry.AddStatusChange(ctx, string(status))
	s.logger.Job("Job status updated", job.JobSheetNumber,
		"from", prevStatus,
		"to", status)

	s.eventBus.PublishJobStatusChanged(domainevents.JobStatusChangedEvent{
		Job:        job,
		PrevStatus: prevStatus,
		Timestamp:  s.now(),
	})

	return job, nil
}

// Dashboard computes summary statistics over the full collection.
func (s *JobServiceImpl) Dashboard(ctx context.Context) (*DashboardData, error) {
	jobs, err := s.jobRepo.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	return &DashboardData{
		Summary:   repair.Summarize(jobs),
		Engineers: repair.Engineers(jobs),
	}, nil
}

// NotificationLink composes the WhatsApp link for a job on demand.
func (s *JobServiceImpl) NotificationLink(ctx context.Context, id string, event notify.Event) (string, error) {
	job, err := s.jobRepo.GetJob(ctx, id)
	if err != nil {
		return "", err
	}

	link, err := s.composer.Link(job, event)
	if err != nil {
		return "", err
	}

	telemetry.AddNotificationComposed(ctx, string(event))
	return link, nil
}
