package domain

import (
	"context"

	metricdomain "podtrace/internal/features/metric/domain"
)

// Resolver defines the interface for resolving a host IP to its node identity
type Resolver interface {
	// Resolve returns the node record for the host with the given internal IP
	// inside the time range, with the instance ID parsed from the provider ID.
	Resolve(ctx context.Context, hostIP string, timeRange metricdomain.TimeRange) (NodeRecord, error)
}
