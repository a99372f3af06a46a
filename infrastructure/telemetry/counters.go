package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// The Add helpers are safe to call before Init (counters are nil in
// unit tests that never set up telemetry).

// AddJobCreated records a registered job sheet.
func AddJobCreated(ctx context.Context) {
	if JobsCreatedCounter != nil {
		JobsCreatedCounter.Add(ctx, 1)
	}
}

// AddStatusChange records a lifecycle status change.
func AddStatusChange(ctx context.Context, status string) {
	if StatusChangesCounter != nil {
		StatusChangesCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", status)))
	}
}

// AddNotificationComposed records a composed notification link.
func AddNotificationComposed(ctx context.Context, event string) {
	if NotificationsComposedCounter != nil {
		NotificationsComposedCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("event", event)))
	}
}
