package events

// JobEventPublisher defines the interface for publishing job-related events.
type JobEventPublisher interface {
	PublishJobCreated(event JobCreatedEvent)
	PublishJobStatusChanged(event JobStatusChangedEvent)
}
