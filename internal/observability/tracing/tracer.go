// Package tracing integrates OpenTelemetry tracing into the HTTP surface.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer creates all server spans for this service.
var tracer = otel.Tracer("newswire")

// Tracer exposes the service tracer for manual span creation.
func Tracer() trace.Tracer {
	return tracer
}
