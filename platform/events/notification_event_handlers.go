package events

import (
	"context"
	"errors"
	"time"

	"fixtrack/domain/events"
	"fixtrack/domain/notify"
	"fixtrack/domain/repair"
	"fixtrack/infrastructure/telemetry"
	"fixtrack/logging"
)

// OutboundNotification is a composed WhatsApp link ready for the
// dashboard to open. The server never dispatches it.
type OutboundNotification struct {
	JobID          string       `json:"job_id"`
	JobSheetNumber string       `json:"job_sheet_number"`
	CustomerName   string       `json:"customer_name"`
	Event          notify.Event `json:"event"`
	Link           string       `json:"link"`
	ComposedAt     time.Time    `json:"composed_at"`
}

// NotificationSink receives composed notifications and user-visible
// warnings for live delivery to connected dashboards.
type NotificationSink interface {
	PushNotification(notification OutboundNotification)
	PushWarning(jobSheetNumber, message string)
}

// NotificationEventHandlers composes WhatsApp links in response to job
// events and pushes them to the sink.
type NotificationEventHandlers struct {
	composer *notify.Composer
	sink     NotificationSink
	logger   *logging.Logger
}

// NewNotificationEventHandlers creates handlers for job notifications.
func NewNotificationEventHandlers(composer *notify.Composer, sink NotificationSink) *NotificationEventHandlers {
	return &NotificationEventHandlers{
		composer: composer,
		sink:     sink,
		logger:   logging.Default().WithComponent("notification_handlers"),
	}
}

// RegisterHandlers subscribes to the event bus.
func (h *NotificationEventHandlers) RegisterHandlers(bus *JobEventBus) {
	bus.OnJobCreated(h.handleJobCreated)
	bus.OnJobStatusChanged(h.handleJobStatusChanged)
}

func (h *NotificationEventHandlers) handleJobCreated(event events.JobCreatedEvent) {
	h.compose(event.Job, notify.EventCreated)
}

func (h *NotificationEventHandlers) handleJobStatusChanged(event events.JobStatusChangedEvent) {
	if event.Job.Status == event.PrevStatus {
		return
	}

	notifyEvent, ok := notify.EventForStatus(event.Job.Status)
	if !ok {
		return
	}

	h.compose(event.Job, notifyEvent)
}

func (h *NotificationEventHandlers) compose(job *repair.Job, event notify.Event) {
	link, err := h.composer.Link(job, event)
	if err != nil {
		if errors.Is(err, notify.ErrInvalidPhone) {
			h.logger.Warn("Cannot notify customer, invalid contact number",
				"job_sheet_number", job.JobSheetNumber,
				"event", event)
			h.sink.PushWarning(job.JobSheetNumber,
				"Invalid customer phone number, WhatsApp message not prepared.")
			return
		}
		h.logger.Error("Failed to compose notification",
			"job_sheet_number", job.JobSheetNumber,
			"event", event,
			"error", err)
		return
	}

	telemetry.AddNotificationComposed(context.Background(), string(event))
	h.logger.Notification("Notification link composed",
		"job_sheet_number", job.JobSheetNumber,
		"event", event)

	h.sink.PushNotification(OutboundNotification{
		JobID:          job.ID,
		JobSheetNumber: job.JobSheetNumber,
		CustomerName:   job.CustomerName,
		Event:          event,
		Link:           link,
		ComposedAt:     time.Now(),
	})
}
