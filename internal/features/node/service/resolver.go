package service

import (
	"context"
	"fmt"
	"log/slog"

	"podtrace/internal/common"
	metricdomain "podtrace/internal/features/metric/domain"
	"podtrace/internal/features/node/domain"
)

// Labels read off kube_node_info series
const (
	labelInternalIP = "internal_ip"
	labelProviderID = "provider_id"
	labelNode       = "node"
)

// SeriesResolver implements domain.Resolver on top of a metrics series provider
type SeriesResolver struct {
	provider metricdomain.Provider
	metric   string
	logger   *slog.Logger
}

// NewSeriesResolver creates a resolver reading node identity from the given series family
func NewSeriesResolver(provider metricdomain.Provider, metric string, logger *slog.Logger) *SeriesResolver {
	return &SeriesResolver{
		provider: provider,
		metric:   metric,
		logger:   logger,
	}
}

// Resolve returns the node record for the host with the given internal IP
func (r *SeriesResolver) Resolve(ctx context.Context, hostIP string, timeRange metricdomain.TimeRange) (domain.NodeRecord, error) {
	if hostIP == "" {
		return domain.NodeRecord{}, common.InvalidInputError("host IP is empty")
	}

	selector := metricdomain.Selector{
		Metric:   r.metric,
		Matchers: []metricdomain.Matcher{{Label: labelInternalIP, Value: hostIP}},
	}

	sets, err := r.provider.Series(ctx, selector, timeRange)
	if err != nil {
		return domain.NodeRecord{}, fmt.Errorf("node series lookup: %w", err)
	}

	if len(sets) == 0 {
		return domain.NodeRecord{}, common.NotFoundError("no node series with internal IP %s", hostIP)
	}

	record := domain.NodeRecord{}
	providerIDs := make(map[string]struct{})
	for _, labels := range sets {
		providerID := labels.Get(labelProviderID)
		if providerID == "" {
			continue
		}
		if _, seen := providerIDs[providerID]; !seen {
			providerIDs[providerID] = struct{}{}
			record = domain.NodeRecord{
				InternalIP: hostIP,
				ProviderID: providerID,
				Node:       labels.Get(labelNode),
			}
		}
	}

	if len(providerIDs) == 0 {
		return domain.NodeRecord{}, common.NotFoundError(
			"node series for internal IP %s carry no %s label", hostIP, labelProviderID)
	}
	if len(providerIDs) > 1 {
		// Internal IPs get reused when nodes are replaced inside the range
		return domain.NodeRecord{}, common.AmbiguousResultError(
			"internal IP %s maps to %d distinct provider IDs", hostIP, len(providerIDs))
	}

	record.InstanceID, err = domain.ParseInstanceID(record.ProviderID)
	if err != nil {
		return domain.NodeRecord{}, err
	}

	r.logger.Debug("node resolved",
		"internal_ip", record.InternalIP,
		"node", record.Node,
		"instance_id", record.InstanceID)

	return record, nil
}
