package repair

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle status of a repair job.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusDelivered  Status = "Delivered"
)

// AllStatuses lists every lifecycle status in progression order.
var AllStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusDelivered}

// IsValid reports whether s is a known lifecycle status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDelivered:
		return true
	}
	return false
}

// DeviceType represents the category of device brought in for repair.
type DeviceType string

const (
	DeviceLaptop  DeviceType = "Laptop"
	DeviceDesktop DeviceType = "Desktop"
)

// IsValid reports whether d is a known device category.
func (d DeviceType) IsValid() bool {
	return d == DeviceLaptop || d == DeviceDesktop
}

// MaxIssues is the most issue descriptions a single job sheet can carry.
const MaxIssues = 5

// Job represents a single repair intake record.
type Job struct {
	ID             string
	JobSheetNumber string
	CustomerName   string
	ContactNumber  string
	DeviceType     DeviceType
	BrandName      string
	Issues         []string
	AttendedBy     string
	EstimatedCost  float64
	FinalCost      *float64
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// Validate checks the job against the intake invariants.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidJob)
	}
	if strings.TrimSpace(j.ContactNumber) == "" {
		return fmt.Errorf("%w: contact number is required", ErrInvalidJob)
	}
	if !j.DeviceType.IsValid() {
		return fmt.Errorf("%w: unknown device type %q", ErrInvalidJob, j.DeviceType)
	}
	if strings.TrimSpace(j.BrandName) == "" {
		return fmt.Errorf("%w: brand name is required", ErrInvalidJob)
	}
	if strings.TrimSpace(j.AttendedBy) == "" {
		return fmt.Errorf("%w: attending engineer is required", ErrInvalidJob)
	}
	if j.EstimatedCost < 0 {
		return fmt.Errorf("%w: estimated cost must be non-negative", ErrInvalidJob)
	}
	if j.FinalCost != nil && *j.FinalCost < 0 {
		return fmt.Errorf("%w: final cost must be non-negative", ErrInvalidJob)
	}
	if !j.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidJob, j.Status)
	}
	if j.FinalCost != nil && j.Status != StatusCompleted && j.Status != StatusDelivered {
		return fmt.Errorf("%w: final cost is only set at or after completion", ErrInvalidJob)
	}
	if err := ValidateIssues(j.Issues); err != nil {
		return err
	}
	return nil
}

// SetStatus moves the job to the given status, maintaining the
// completion timestamp and final cost invariants. The transition must
// be allowed by the supplied policy.
func (j *Job) SetStatus(status Status, finalCost *float64, policy *TransitionPolicy, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidJob, status)
	}
	if !policy.Allowed(j.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, j.Status, status)
	}
	if finalCost != nil {
		if *finalCost < 0 {
			return fmt.Errorf("%w: final cost must be non-negative", ErrInvalidJob)
		}
		if status != StatusCompleted && status != StatusDelivered {
			return fmt.Errorf("%w: final cost is only set at or after completion", ErrInvalidJob)
		}
	}

	entersCompleted := status == StatusCompleted && j.Status != StatusCompleted

	j.Status = status
	j.UpdatedAt = now

	if finalCost != nil {
		j.FinalCost = finalCost
	}

	switch {
	case entersCompleted:
		completed := now
		j.CompletedAt = &completed
	case status == StatusPending || status == StatusInProgress:
		// Moving back before completion clears the completion mark
		// and the final cost recorded with it.
		j.CompletedAt = nil
		j.FinalCost = nil
	}

	return nil
}

// AddIssue appends a new issue description, enforcing the 1..5 bound
// and uniqueness after trimming.
func (j *Job) AddIssue(issue string) error {
	trimmed := strings.TrimSpace(issue)
	if trimmed == "" {
		return fmt.Errorf("%w: issue description is empty", ErrInvalidJob)
	}
	if len(j.Issues) >= MaxIssues {
		return fmt.Errorf("%w: a job sheet holds at most %d issues", ErrInvalidJob, MaxIssues)
	}
	for _, existing := range j.Issues {
		if existing == trimmed {
			return fmt.Errorf("%w: duplicate issue %q", ErrInvalidJob, trimmed)
		}
	}
	j.Issues = append(j.Issues, trimmed)
	return nil
}

// NormalizeIssues trims entries and drops empties, preserving order.
// Returns an error if the result violates the issue invariants.
func NormalizeIssues(raw []string) ([]string, error) {
	issues := make([]string, 0, len(raw))
	for _, entry := range raw {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		issues = append(issues, trimmed)
	}
	if err := ValidateIssues(issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// ValidateIssues checks the 1..5 bound and uniqueness of trimmed,
// non-empty issue descriptions.
func ValidateIssues(issues []string) error {
	if len(issues) == 0 {
		return fmt.Errorf("%w: at least one issue is required", ErrInvalidJob)
	}
	if len(issues) > MaxIssues {
		return fmt.Errorf("%w: a job sheet holds at most %d issues", ErrInvalidJob, MaxIssues)
	}
	seen := make(map[string]bool, len(issues))
	for _, issue := range issues {
		if strings.TrimSpace(issue) == "" {
			return fmt.Errorf("%w: issue description is empty", ErrInvalidJob)
		}
		if issue != strings.TrimSpace(issue) {
			return fmt.Errorf("%w: issue %q is not trimmed", ErrInvalidJob, issue)
		}
		if seen[issue] {
			return fmt.Errorf("%w: duplicate issue %q", ErrInvalidJob, issue)
		}
		seen[issue] = true
	}
	return nil
}

// IsCompleted reports whether the job has reached Completed or later.
func (j *Job) IsCompleted() bool {
	return j.Status == StatusCompleted || j.Status == StatusDelivered
}
