package service

import (
	"context"
	"log/slog"

	eventsdomain "podtrace/internal/features/events/domain"
	metricdomain "podtrace/internal/features/metric/domain"
	nodedomain "podtrace/internal/features/node/domain"
	poddomain "podtrace/internal/features/pod/domain"
	"podtrace/internal/features/trace/domain"
)

// Pipeline implements domain.Tracer by chaining the three lookup stages.
// Each stage's single output is the next stage's sole input.
type Pipeline struct {
	locator  poddomain.Locator
	resolver nodedomain.Resolver
	fetcher  eventsdomain.Provider
	logger   *slog.Logger
}

// NewPipeline creates a tracer over the given stages
func NewPipeline(locator poddomain.Locator, resolver nodedomain.Resolver, fetcher eventsdomain.Provider, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		locator:  locator,
		resolver: resolver,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// Trace runs the full correlation pipeline
func (p *Pipeline) Trace(ctx context.Context, pattern string, timeRange metricdomain.TimeRange) (domain.TraceResult, error) {
	pod, err := p.locator.Locate(ctx, pattern, timeRange)
	if err != nil {
		return domain.TraceResult{}, domain.NewStageError(domain.StagePodLocator, err)
	}
	p.logger.Info("pod located", "pod", pod.Pod, "host_ip", pod.HostIP)

	node, err := p.resolver.Resolve(ctx, pod.HostIP, timeRange)
	if err != nil {
		return domain.TraceResult{}, domain.NewStageError(domain.StageNodeResolver, err)
	}
	p.logger.Info("node resolved", "node", node.Node, "instance_id", node.InstanceID)

	events, err := p.fetcher.Fetch(ctx, node.InstanceID, timeRange)
	if err != nil {
		return domain.TraceResult{}, domain.NewStageError(domain.StageEventFetcher, err)
	}
	p.logger.Info("events fetched", "instance_id", node.InstanceID, "events", len(events))

	return domain.TraceResult{
		Pod:    pod,
		Node:   node,
		Events: events,
	}, nil
}
