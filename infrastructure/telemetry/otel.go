package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	mSdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"fixtrack/logging"
)

var (
	Meter metric.Meter

	// JobsCreatedCounter counts job sheets registered.
	JobsCreatedCounter metric.Int64Counter

	// StatusChangesCounter counts lifecycle status changes.
	StatusChangesCounter metric.Int64Counter

	// NotificationsComposedCounter counts WhatsApp links composed.
	NotificationsComposedCounter metric.Int64Counter
)

// Init configures OTel tracing and metrics with stdout exporters and
// registers the service counters. The returned function shuts both
// providers down.
func Init(ctx context.Context, serviceVersion string, logger *logging.Logger) (func(context.Context) error, error) {
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName("fixtrack"),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)

	metricExp, err := stdoutmetric.New()
	if err != nil {
		return nil, err
	}
	meterProvider := mSdk.NewMeterProvider(
		mSdk.WithReader(mSdk.NewPeriodicReader(metricExp, mSdk.WithInterval(time.Minute))),
		mSdk.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	Meter = meterProvider.Meter("fixtrack")

	if JobsCreatedCounter, err = Meter.Int64Counter("jobs_created_total"); err != nil {
		return nil, err
	}
	if StatusChangesCounter, err = Meter.Int64Counter("job_status_changes_total"); err != nil {
		return nil, err
	}
	if NotificationsComposedCounter, err = Meter.Int64Counter("notifications_composed_total"); err != nil {
		return nil, err
	}

	logger.Info("Telemetry initialized", "exporters", "stdout")

	return func(ctx context.Context) error {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			return err
		}
		return meterProvider.Shutdown(ctx)
	}, nil
}
