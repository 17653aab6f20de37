package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"realestate-marketplace/internal/common/logger"
)

type Observability struct {
	serviceName     string
	tracerProvider  *sdktrace.TracerProvider
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
}

// New registers an OpenTelemetry meter provider exporting through the
// default Prometheus registry, plus a tracer provider for request spans.
// On exporter failure metrics are disabled but tracing still works.
func New(serviceName string, log logger.Logger) *Observability {
	tracerProvider := newTracerProvider()

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
		return &Observability{serviceName: serviceName, tracerProvider: tracerProvider}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requestCounter, _ := meter.Int64Counter(
		"api.requests",
		otelmetric.WithDescription("Number of API requests handled"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"api.request.duration",
		otelmetric.WithDescription("API request handling duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		serviceName:     serviceName,
		tracerProvider:  tracerProvider,
		meterProvider:   provider,
		meter:           meter,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
	}
}

// RecordRequest counts one handled request and its latency.
func (o *Observability) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	if o.requestCounter != nil {
		o.requestCounter.Add(ctx, 1, attrs)
	}
	if o.requestDuration != nil {
		o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
