package domain

import (
	"context"

	metricdomain "podtrace/internal/features/metric/domain"
)

// Locator defines the interface for resolving a pod name pattern to its host
type Locator interface {
	// Locate returns the placement record for pods matching the pattern
	// inside the time range. The lookup fails when zero series match or
	// when matching series disagree on the host IP.
	Locate(ctx context.Context, pattern string, timeRange metricdomain.TimeRange) (PodRecord, error)
}
