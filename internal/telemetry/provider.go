// Package telemetry wires OpenTelemetry tracing. Spans export over OTLP
// HTTP; when no collector is configured the provider stays a no-op and
// the span helpers cost nothing.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type Config struct {
	ServiceName    string  `mapstructure:"service-name"`
	ServiceVersion string  `mapstructure:"service-version"`
	Environment    string  `mapstructure:"environment"`
	CollectorURL   string  `mapstructure:"collector-url"`
	SamplingRatio  float64 `mapstructure:"sampling-ratio"`
}

type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider sets the global tracer provider and propagators. A nil
// provider with no error means tracing is disabled.
func NewProvider(ctx context.Context, c Config) (*Provider, error) {
	if c.CollectorURL == "" {
		return nil, nil
	}
	if c.ServiceName == "" {
		c.ServiceName = "signoff"
	}
	if c.SamplingRatio <= 0 || c.SamplingRatio > 1 {
		c.SamplingRatio = 1
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(c.ServiceName),
			semconv.ServiceVersionKey.String(c.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(c.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(c.CollectorURL),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SamplingRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return &Provider{tp: tp}, nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}
