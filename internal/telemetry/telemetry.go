// Package telemetry configures the OpenTelemetry tracer provider used by the
// executor and session packages.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrUnknownExporter is returned for an unsupported TraceExporter value.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// Config selects how spans are exported.
type Config struct {
	ServiceName string
	// TraceExporter is "none" or "stdout".
	TraceExporter string
}

// ShutdownFunc flushes and releases exporter resources.
type ShutdownFunc func(context.Context) error

// Init installs a global tracer provider according to cfg. With the "none"
// exporter the global no-op provider is left in place. Spans exported to
// stdout are written to w.
//
// The returned shutdown function must be called before the process exits.
func Init(ctx context.Context, cfg Config, w io.Writer) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.TraceExporter {
	case "", "none":
		return noop, nil
	case "stdout":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
