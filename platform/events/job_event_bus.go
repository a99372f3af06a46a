package events

import (
	"sync"

	"fixtrack/domain/events"
	"fixtrack/logging"
)

// JobEventBus provides type-safe event publishing and subscription for
// job-sheet events.
type JobEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	jobCreatedHandlers       []func(events.JobCreatedEvent)
	jobStatusChangedHandlers []func(events.JobStatusChangedEvent)
}

// NewJobEventBus creates a new typed job event bus
func NewJobEventBus() *JobEventBus {
	return &JobEventBus{
		logger:                   logging.Default().WithComponent("job_event_bus"),
		jobCreatedHandlers:       make([]func(events.JobCreatedEvent), 0),
		jobStatusChangedHandlers: make([]func(events.JobStatusChangedEvent), 0),
	}
}

// Subscribe methods for each event type

func (bus *JobEventBus) OnJobCreated(handler func(events.JobCreatedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.jobCreatedHandlers = append(bus.jobCreatedHandlers, handler)
}

func (bus *JobEventBus) OnJobStatusChanged(handler func(events.JobStatusChangedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.jobStatusChangedHandlers = append(bus.jobStatusChangedHandlers, handler)
}

// Publish methods for each event type

func (bus *JobEventBus) PublishJobCreated(event events.JobCreatedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.JobCreatedEvent), len(bus.jobCreatedHandlers))
	copy(handlers, bus.jobCreatedHandlers)
	bus.mu.RUnlock()

	// Execute handlers asynchronously to avoid blocking the publisher
	for _, handler := range handlers {
		go func(h func(events.JobCreatedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in JobCreated",
						"job_sheet_number", event.Job.JobSheetNumber,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *JobEventBus) PublishJobStatusChanged(event events.JobStatusChangedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.JobStatusChangedEvent), len(bus.jobStatusChangedHandlers))
	copy(handlers, bus.jobStatusChangedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.JobStatusChangedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in JobStatusChanged",
						"job_sheet_number", event.Job.JobSheetNumber,
						"status", event.Job.Status,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
