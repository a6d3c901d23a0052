package service

import (
	"context"
	"fmt"
	"log/slog"

	"podtrace/internal/common"
	metricdomain "podtrace/internal/features/metric/domain"
	"podtrace/internal/features/pod/domain"
)

// Labels read off kube_pod_info series
const (
	labelPod       = "pod"
	labelNamespace = "namespace"
	labelHostIP    = "host_ip"
	labelNode      = "node"
)

// SeriesLocator implements domain.Locator on top of a metrics series provider
type SeriesLocator struct {
	provider metricdomain.Provider
	metric   string
	logger   *slog.Logger
}

// NewSeriesLocator creates a locator reading pod placement from the given series family
func NewSeriesLocator(provider metricdomain.Provider, metric string, logger *slog.Logger) *SeriesLocator {
	return &SeriesLocator{
		provider: provider,
		metric:   metric,
		logger:   logger,
	}
}

// Locate resolves a pod name pattern to its placement record
func (l *SeriesLocator) Locate(ctx context.Context, pattern string, timeRange metricdomain.TimeRange) (domain.PodRecord, error) {
	if pattern == "" {
		return domain.PodRecord{}, common.InvalidInputError("pod pattern is empty")
	}

	selector := metricdomain.Selector{
		Metric:   l.metric,
		Matchers: []metricdomain.Matcher{{Label: labelPod, Value: pattern, Regex: true}},
	}

	sets, err := l.provider.Series(ctx, selector, timeRange)
	if err != nil {
		return domain.PodRecord{}, fmt.Errorf("pod series lookup: %w", err)
	}

	if len(sets) == 0 {
		return domain.PodRecord{}, common.NotFoundError("no pod series match pattern %q", pattern)
	}

	// The pattern must pin down exactly one host; multiple distinct host
	// IPs mean the caller has to narrow the pattern, never guess.
	record := domain.PodRecord{}
	hostIPs := make(map[string]struct{})
	for _, labels := range sets {
		ip := labels.Get(labelHostIP)
		if ip == "" {
			continue
		}
		if _, seen := hostIPs[ip]; !seen {
			hostIPs[ip] = struct{}{}
			record = domain.PodRecord{
				Pod:       labels.Get(labelPod),
				Namespace: labels.Get(labelNamespace),
				HostIP:    ip,
				Node:      labels.Get(labelNode),
			}
		}
	}

	if len(hostIPs) == 0 {
		return domain.PodRecord{}, common.NotFoundError("series matching %q carry no %s label", pattern, labelHostIP)
	}
	if len(hostIPs) > 1 {
		return domain.PodRecord{}, common.AmbiguousResultError(
			"pattern %q matches %d distinct host IPs", pattern, len(hostIPs))
	}

	l.logger.Debug("pod located",
		"pod", record.Pod,
		"namespace", record.Namespace,
		"host_ip", record.HostIP)

	return record, nil
}
