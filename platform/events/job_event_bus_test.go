package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainevents "fixtrack/domain/events"
	"fixtrack/domain/repair"
)

func busJob(sheet string, status repair.Status) *repair.Job {
	return &repair.Job{
		ID:             "job-" + sheet,
		JobSheetNumber: sheet,
		CustomerName:   "Anita Sharma",
		ContactNumber:  "9876543210",
		DeviceType:     repair.DeviceLaptop,
		BrandName:      "Dell",
		Issues:         []string{"Screen flicker"},
		AttendedBy:     "Ravi",
		EstimatedCost:  1500,
		Status:         status,
	}
}

func TestJobEventBus_PublishJobCreated(t *testing.T) {
	bus := NewJobEventBus()

	received := make(chan domainevents.JobCreatedEvent, 1)
	bus.OnJobCreated(func(event domainevents.JobCreatedEvent) {
		received <- event
	})

	published := domainevents.JobCreatedEvent{
		Job:       busJob("FTT-00001", repair.StatusPending),
		Timestamp: time.Now(),
	}
	bus.PublishJobCreated(published)

	select {
	case event := <-received:
		assert.Equal(t, "FTT-00001", event.Job.JobSheetNumber)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestJobEventBus_PublishJobStatusChanged(t *testing.T) {
	bus := NewJobEventBus()

	received := make(chan domainevents.JobStatusChangedEvent, 1)
	bus.OnJobStatusChanged(func(event domainevents.JobStatusChangedEvent) {
		received <- event
	})

	bus.PublishJobStatusChanged(domainevents.JobStatusChangedEvent{
		Job:        busJob("FTT-00002", repair.StatusCompleted),
		PrevStatus: repair.StatusInProgress,
		Timestamp:  time.Now(),
	})

	select {
	case event := <-received:
		assert.Equal(t, repair.StatusInProgress, event.PrevStatus)
		assert.Equal(t, repair.StatusCompleted, event.Job.Status)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestJobEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewJobEventBus()

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		bus.OnJobCreated(func(domainevents.JobCreatedEvent) {
			wg.Done()
		})
	}

	bus.PublishJobCreated(domainevents.JobCreatedEvent{
		Job:       busJob("FTT-00003", repair.StatusPending),
		Timestamp: time.Now(),
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all handlers were invoked")
	}
}

func TestJobEventBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewJobEventBus()

	bus.OnJobCreated(func(domainevents.JobCreatedEvent) {
		panic("boom")
	})

	received := make(chan struct{}, 1)
	bus.OnJobCreated(func(domainevents.JobCreatedEvent) {
		received <- struct{}{}
	})

	bus.PublishJobCreated(domainevents.JobCreatedEvent{
		Job:       busJob("FTT-00004", repair.StatusPending),
		Timestamp: time.Now(),
	})

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("surviving handler was not invoked")
	}
}

func TestJobEventBus_NoSubscribers(t *testing.T) {
	bus := NewJobEventBus()

	require.NotPanics(t, func() {
		bus.PublishJobCreated(domainevents.JobCreatedEvent{
			Job:       busJob("FTT-00005", repair.StatusPending),
			Timestamp: time.Now(),
		})
	})
}
