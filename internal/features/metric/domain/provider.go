package domain

import "context"

// Provider defines the interface for series lookups against a metrics backend
type Provider interface {
	// Series returns the label sets of all series matching the selector
	// inside the time range. An empty result is not an error.
	Series(ctx context.Context, selector Selector, timeRange TimeRange) ([]LabelSet, error)
}
