package observability

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracing is opt-in. When OTEL_ENABLED is set, SetupTelemetry installs
// a global tracer provider and the store client's otelhttp transport
// starts emitting spans for every listing call; otherwise everything
// stays on the otel noop defaults.

// TelemetryConfig configures the trace pipeline.
type TelemetryConfig struct {
	Enabled bool

	// Endpoint overrides the OTLP/HTTP collector address. Empty defers
	// to the exporter's own OTEL_EXPORTER_OTLP_* handling.
	Endpoint string

	Version string
	Commit  string
}

// TelemetryShutdown flushes pending spans and restores the otel
// globals that SetupTelemetry replaced.
type TelemetryShutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// otelGlobals snapshots the process-wide otel state so shutdown can
// put it back, keeping tests and repeated setups isolated.
type otelGlobals struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
	errHandler otel.ErrorHandler
}

func snapshotGlobals() otelGlobals {
	return otelGlobals{
		provider:   otel.GetTracerProvider(),
		propagator: otel.GetTextMapPropagator(),
		errHandler: otel.GetErrorHandler(),
	}
}

func (g otelGlobals) restore() {
	otel.SetTracerProvider(g.provider)
	otel.SetTextMapPropagator(g.propagator)
	otel.SetErrorHandler(g.errHandler)
}

// SetupTelemetry starts the trace pipeline. Disabled or nil config is
// a no-op with a no-op shutdown.
func SetupTelemetry(ctx context.Context, cfg *TelemetryConfig) (TelemetryShutdown, error) {
	if cfg == nil || !cfg.Enabled {
		return noopShutdown, nil
	}

	prev := snapshotGlobals()

	res, err := traceResource(cfg)
	if err != nil {
		return noopShutdown, err
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return noopShutdown, fmt.Errorf("create otlp exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	// Export failures must never write to the user's terminal.
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(error) {}))

	return func(shutdownCtx context.Context) error {
		err := provider.Shutdown(shutdownCtx)
		prev.restore()
		if err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}
		return nil
	}, nil
}

func traceResource(cfg *TelemetryConfig) (*resource.Resource, error) {
	name := os.Getenv("OTEL_SERVICE_NAME")
	if name == "" {
		name = "lmspick"
	}

	attrs := []attribute.KeyValue{
		attribute.String("service.name", name),
		attribute.String("service.version", cfg.Version),
	}
	if cfg.Commit != "" {
		attrs = append(attrs, attribute.String("service.commit", cfg.Commit))
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	return res, nil
}

// Tracer returns a named tracer from whatever provider is installed.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}

// IsTelemetryEnabled reads the OTEL_ENABLED switch.
func IsTelemetryEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("OTEL_ENABLED"))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
