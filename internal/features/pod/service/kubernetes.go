package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"podtrace/internal/common"
	metricdomain "podtrace/internal/features/metric/domain"
	"podtrace/internal/features/pod/domain"
)

// KubeLocator implements domain.Locator against the Kubernetes API server.
// It only sees currently running pods, so it is the fallback source for
// when the metrics backend is itself part of the outage.
type KubeLocator struct {
	client    kubernetes.Interface
	namespace string
	logger    *slog.Logger
}

// NewKubeLocator creates an API-server backed locator.
// An empty namespace searches all namespaces.
func NewKubeLocator(client kubernetes.Interface, namespace string, logger *slog.Logger) *KubeLocator {
	return &KubeLocator{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Locate resolves a pod name pattern to its placement record
func (l *KubeLocator) Locate(ctx context.Context, pattern string, _ metricdomain.TimeRange) (domain.PodRecord, error) {
	if pattern == "" {
		return domain.PodRecord{}, common.InvalidInputError("pod pattern is empty")
	}

	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return domain.PodRecord{}, common.InvalidInputError("pod pattern %q: %v", pattern, err)
	}

	pods, err := l.client.CoreV1().Pods(l.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		if common.IsContextCanceled(err) {
			return domain.PodRecord{}, fmt.Errorf("pod list canceled: %w", err)
		}
		return domain.PodRecord{}, common.BackendUnavailableError("failed to list pods: %v", err)
	}

	record := domain.PodRecord{}
	hostIPs := make(map[string]struct{})
	for _, pod := range pods.Items {
		if !re.MatchString(pod.Name) || pod.Status.HostIP == "" {
			continue
		}
		if _, seen := hostIPs[pod.Status.HostIP]; !seen {
			hostIPs[pod.Status.HostIP] = struct{}{}
			record = domain.PodRecord{
				Pod:       pod.Name,
				Namespace: pod.Namespace,
				HostIP:    pod.Status.HostIP,
				Node:      pod.Spec.NodeName,
			}
		}
	}

	if len(hostIPs) == 0 {
		return domain.PodRecord{}, common.NotFoundError("no running pods match pattern %q", pattern)
	}
	if len(hostIPs) > 1 {
		return domain.PodRecord{}, common.AmbiguousResultError(
			"pattern %q matches pods on %d distinct hosts", pattern, len(hostIPs))
	}

	l.logger.Debug("pod located via API server",
		"pod", record.Pod,
		"namespace", record.Namespace,
		"host_ip", record.HostIP)

	return record, nil
}
