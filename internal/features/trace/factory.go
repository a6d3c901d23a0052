package trace

import (
	"context"
	"fmt"
	"log/slog"

	"podtrace/cmd/app"
	awsadapter "podtrace/internal/features/events/adapter/aws"
	eventsservice "podtrace/internal/features/events/service"
	metricservice "podtrace/internal/features/metric/service"
	nodedomain "podtrace/internal/features/node/domain"
	nodeservice "podtrace/internal/features/node/service"
	poddomain "podtrace/internal/features/pod/domain"
	podservice "podtrace/internal/features/pod/service"
	"podtrace/internal/features/trace/domain"
	traceservice "podtrace/internal/features/trace/service"
)

// NewTracer creates the full correlation pipeline from configuration.
// The lookup source for pod and node records follows cfg.Metrics.Source;
// instance events always come from the cloud provider.
func NewTracer(ctx context.Context, cfg *app.Config, logger *slog.Logger) (domain.Tracer, error) {
	var (
		locator  poddomain.Locator
		resolver nodedomain.Resolver
	)

	switch cfg.Metrics.Source {
	case "kubernetes":
		clientset, err := app.NewKubeClient(&cfg.Kubernetes)
		if err != nil {
			return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
		}
		locator = podservice.NewKubeLocator(clientset, cfg.Kubernetes.Namespace, logger)
		resolver = nodeservice.NewKubeResolver(clientset, logger)

	default:
		metricClient, err := metricservice.NewClient(&cfg.Metrics, cfg.Retry, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics client: %w", err)
		}
		locator = podservice.NewSeriesLocator(metricClient, cfg.Metrics.PodInfoMetric, logger)
		resolver = nodeservice.NewSeriesResolver(metricClient, cfg.Metrics.NodeInfoMetric, logger)
	}

	ec2Client, err := awsadapter.NewEC2Client(ctx, &cfg.Cloud)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud client: %w", err)
	}
	fetcher := eventsservice.NewFetcher(ec2Client, &cfg.Cloud, cfg.Retry, logger)

	return traceservice.NewPipeline(locator, resolver, fetcher, logger), nil
}
