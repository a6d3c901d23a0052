package domain

import (
	"context"

	metricdomain "podtrace/internal/features/metric/domain"
)

// Tracer defines the interface for running the full correlation pipeline
type Tracer interface {
	// Trace chains pod location, node resolution and event fetching,
	// short-circuiting on the first failure. Errors carry the failing
	// stage as a StageError.
	Trace(ctx context.Context, pattern string, timeRange metricdomain.TimeRange) (TraceResult, error)
}
