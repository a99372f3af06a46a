package notify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixtrack/domain/repair"
)

func testJob() *repair.Job {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &repair.Job{
		ID:             "job-7",
		JobSheetNumber: "FTT-00007",
		CustomerName:   "Anita Sharma",
		ContactNumber:  "9876543210",
		DeviceType:     repair.DeviceLaptop,
		BrandName:      "Dell",
		Issues:         []string{"Screen flicker"},
		AttendedBy:     "Ravi",
		EstimatedCost:  1500,
		Status:         repair.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func defaultComposer(t *testing.T) *Composer {
	t.Helper()
	composer, err := NewComposer(Config{})
	require.NoError(t, err)
	return composer
}

func TestNormalizePhone(t *testing.T) {
	composer := defaultComposer(t)

	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{name: "ten digits get country code", raw: "9876543210", expected: "919876543210"},
		{name: "eleven or more digits kept as-is", raw: "919876543210", expected: "919876543210"},
		{name: "formatting stripped before counting", raw: "+91 98765-43210", expected: "919876543210"},
		{name: "spaces in ten digit number", raw: "98765 43210", expected: "919876543210"},
		{name: "too short", raw: "12345", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "letters only", raw: "not-a-number", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, err := composer.NormalizePhone(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, phone)
		})
	}
}

func TestComposerMessage(t *testing.T) {
	composer := defaultComposer(t)

	t.Run("created message carries sheet number and estimate", func(t *testing.T) {
		message, err := composer.Message(testJob(), EventCreated)
		require.NoError(t, err)

		assert.Contains(t, message, "Dear Anita Sharma")
		assert.Contains(t, message, "FTT-00007")
		assert.Contains(t, message, "₹1500")
		assert.Contains(t, message, "FTT Repairing Center")
		assert.NotContains(t, message, "final cost")
	})

	t.Run("completed message carries final cost", func(t *testing.T) {
		job := testJob()
		cost := 1800.5
		job.FinalCost = &cost

		message, err := composer.Message(job, EventCompleted)
		require.NoError(t, err)

		assert.Contains(t, message, "₹1800.5")
		assert.Contains(t, message, "collect your product")
	})

	t.Run("delivered message thanks the customer", func(t *testing.T) {
		message, err := composer.Message(testJob(), EventDelivered)
		require.NoError(t, err)

		assert.Contains(t, message, "successfully delivered")
		assert.Contains(t, message, "FTT Repairing Center")
	})

	t.Run("unknown event rejected", func(t *testing.T) {
		_, err := composer.Message(testJob(), "returned")
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})
}

func TestComposerLink(t *testing.T) {
	composer := defaultComposer(t)

	t.Run("link carries phone and encoded message", func(t *testing.T) {
		link, err := composer.Link(testJob(), EventCreated)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="), link)

		parsed, err := url.Parse(link)
		require.NoError(t, err)
		text := parsed.Query().Get("text")
		assert.Contains(t, text, "FTT-00007")
		assert.Contains(t, text, "Dear Anita Sharma")
	})

	t.Run("invalid phone surfaces instead of dropping", func(t *testing.T) {
		job := testJob()
		job.ContactNumber = "12345"

		_, err := composer.Link(job, EventCreated)
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestComposerConfig(t *testing.T) {
	t.Run("template override", func(t *testing.T) {
		composer, err := NewComposer(Config{
			Templates: map[Event]string{
				EventCreated: "Hi {{.CustomerName}}, sheet {{.JobSheetNumber}}",
			},
		})
		require.NoError(t, err)

		message, err := composer.Message(testJob(), EventCreated)
		require.NoError(t, err)
		assert.Equal(t, "Hi Anita Sharma, sheet FTT-00007", message)
	})

	t.Run("custom shop name and currency", func(t *testing.T) {
		composer, err := NewComposer(Config{ShopName: "Acme Repairs", Currency: "$"})
		require.NoError(t, err)

		message, err := composer.Message(testJob(), EventCreated)
		require.NoError(t, err)
		assert.Contains(t, message, "Acme Repairs")
		assert.Contains(t, message, "$1500")
	})

	t.Run("override for unknown event rejected", func(t *testing.T) {
		_, err := NewComposer(Config{Templates: map[Event]string{"returned": "x"}})
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})

	t.Run("malformed template rejected", func(t *testing.T) {
		_, err := NewComposer(Config{Templates: map[Event]string{EventCreated: "{{.Broken"}})
		assert.Error(t, err)
	})
}

func TestEventForStatus(t *testing.T) {
	event, ok := EventForStatus(repair.StatusCompleted)
	assert.True(t, ok)
	assert.Equal(t, EventCompleted, event)

	event, ok = EventForStatus(repair.StatusDelivered)
	assert.True(t, ok)
	assert.Equal(t, EventDelivered, event)

	_, ok = EventForStatus(repair.StatusPending)
	assert.False(t, ok)
	_, ok = EventForStatus(repair.StatusInProgress)
	assert.False(t, ok)
}
