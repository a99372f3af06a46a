package repair

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobFactory creates new jobs with proper initialization.
type JobFactory struct{}

// Intake holds the fields a staff member fills in on the new-job form.
type Intake struct {
	CustomerName  string
	ContactNumber string
	DeviceType    DeviceType
	BrandName     string
	Issues        []string
	AttendedBy    string
	EstimatedCost float64
}

// CreateJob builds a Pending job from the intake form and a freshly
// minted sheet number. The returned job has passed Validate.
func (jf *JobFactory) CreateJob(intake Intake, jobSheetNumber string, now time.Time) (*Job, error) {
	issues, err := NormalizeIssues(intake.Issues)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:             uuid.NewString(),
		JobSheetNumber: jobSheetNumber,
		CustomerName:   trimmed(intake.CustomerName),
		ContactNumber:  trimmed(intake.ContactNumber),
		DeviceType:     intake.DeviceType,
		BrandName:      trimmed(intake.BrandName),
		Issues:         issues,
		AttendedBy:     trimmed(intake.AttendedBy),
		EstimatedCost:  intake.EstimatedCost,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
