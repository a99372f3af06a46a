package events

import (
	"time"

	"fixtrack/domain/repair"
)

// JobCreatedEvent represents a freshly registered job sheet.
type JobCreatedEvent struct {
	Job       *repair.Job
	Timestamp time.Time
}

// JobStatusChangedEvent represents a job moving to a new lifecycle status.
type JobStatusChangedEvent struct {
	Job        *repair.Job
	PrevStatus repair.Status
	Timestamp  time.Time
}
