package stream

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is used when Config.TracerName is empty.
const defaultTracerName = "vireo/stream"

// newTracer resolves a tracer from the global OpenTelemetry provider.
// Configure the provider in main() before serving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func newTracer(name string) trace.Tracer {
	if name == "" {
		name = defaultTracerName
	}
	return otel.Tracer(name)
}
