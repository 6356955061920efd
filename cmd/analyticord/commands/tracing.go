package commands

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// setupTracing installs a provider that prints every request span to w.
func (o *rootOptions) setupTracing(w io.Writer) error {
	if !o.trace {
		return nil
	}
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}
	o.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	return nil
}

func (o *rootOptions) shutdownTracing(ctx context.Context) error {
	if o.tracerProvider == nil {
		return nil
	}
	return o.tracerProvider.Shutdown(ctx)
}
