package observe

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer and meter created by a Provider
const InstrumentationName = "github.com/jzx17/goresilience"

// Provider owns the SDK tracer and meter providers of a process
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// NewProvider builds providers for the named exporter. "stdout" writes
// spans and metrics as JSON to w; "none" or "" records in memory only.
func NewProvider(exporter string, w io.Writer) (*Provider, error) {
	switch exporter {
	case "stdout":
		spanExp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		return &Provider{
			tracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExp)),
			meterProvider:  sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp))),
		}, nil

	case "none", "":
		return &Provider{
			tracerProvider: sdktrace.NewTracerProvider(),
			meterProvider:  sdkmetric.NewMeterProvider(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown exporter: %q", exporter)
	}
}

// Tracer returns the process tracer
func (p *Provider) Tracer() trace.Tracer {
	return p.tracerProvider.Tracer(InstrumentationName)
}

// Meter returns the process meter
func (p *Provider) Meter() metric.Meter {
	return p.meterProvider.Meter(InstrumentationName)
}

// Shutdown flushes and stops both providers
func (p *Provider) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.tracerProvider.Shutdown(ctx),
		p.meterProvider.Shutdown(ctx),
	)
}
