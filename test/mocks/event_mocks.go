package mocks

import (
	"github.com/stretchr/testify/mock"

	"fixtrack/domain/events"
)

// MockJobEventPublisher is a mock implementation of the job event
// publisher for testing
type MockJobEventPublisher struct {
	mock.Mock
}

func (m *MockJobEventPublisher) PublishJobCreated(event events.JobCreatedEvent) {
	m.Called(event)
}

func (m *MockJobEventPublisher) PublishJobStatusChanged(event events.JobStatusChangedEvent) {
	m.Called(event)
}
