// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter provider. Instruments are
// exported through the default Prometheus registry served on /metrics.
type Observability struct {
	meterProvider   *metric.MeterProvider
	requestDuration otelmetric.Float64Histogram
	upstreamCalls   otelmetric.Int64Counter
}

// New registers the Prometheus exporter. When the exporter cannot be built
// the returned value records nothing.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.duration",
		otelmetric.WithDescription("HTTP request handling duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	upstreamCalls, err := meter.Int64Counter(
		"upstream.calls",
		otelmetric.WithDescription("Calls made to the platform API"),
	)
	if err != nil {
		return &Observability{meterProvider: provider, requestDuration: requestDuration}, err
	}

	return &Observability{
		meterProvider:   provider,
		requestDuration: requestDuration,
		upstreamCalls:   upstreamCalls,
	}, nil
}

// RecordRequest records one served request.
func (o *Observability) RecordRequest(ctx context.Context, method string, status int, d time.Duration) {
	if o == nil || o.requestDuration == nil {
		return
	}
	o.requestDuration.Record(ctx, float64(d.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("http.method", method),
		attribute.Int("http.status_code", status),
	))
}

// RecordUpstreamCall counts one call to the platform API.
func (o *Observability) RecordUpstreamCall(ctx context.Context, operation string, ok bool) {
	if o == nil || o.upstreamCalls == nil {
		return
	}
	o.upstreamCalls.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("ok", ok),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
