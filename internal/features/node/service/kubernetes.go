package service

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"podtrace/internal/common"
	metricdomain "podtrace/internal/features/metric/domain"
	"podtrace/internal/features/node/domain"
)

// KubeResolver implements domain.Resolver against the Kubernetes API server.
// It only sees currently registered nodes, so it is the fallback source for
// when the metrics backend is itself part of the outage.
type KubeResolver struct {
	client kubernetes.Interface
	logger *slog.Logger
}

// NewKubeResolver creates an API-server backed resolver
func NewKubeResolver(client kubernetes.Interface, logger *slog.Logger) *KubeResolver {
	return &KubeResolver{
		client: client,
		logger: logger,
	}
}

// Resolve returns the node record for the host with the given internal IP
func (r *KubeResolver) Resolve(ctx context.Context, hostIP string, _ metricdomain.TimeRange) (domain.NodeRecord, error) {
	if hostIP == "" {
		return domain.NodeRecord{}, common.InvalidInputError("host IP is empty")
	}

	nodes, err := r.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		if common.IsContextCanceled(err) {
			return domain.NodeRecord{}, fmt.Errorf("node list canceled: %w", err)
		}
		return domain.NodeRecord{}, common.BackendUnavailableError("failed to list nodes: %v", err)
	}

	record := domain.NodeRecord{}
	matches := 0
	for _, node := range nodes.Items {
		if !hasInternalIP(node, hostIP) {
			continue
		}
		matches++
		record = domain.NodeRecord{
			InternalIP: hostIP,
			ProviderID: node.Spec.ProviderID,
			Node:       node.Name,
		}
	}

	if matches == 0 {
		return domain.NodeRecord{}, common.NotFoundError("no node has internal IP %s", hostIP)
	}
	if matches > 1 {
		return domain.NodeRecord{}, common.AmbiguousResultError(
			"internal IP %s belongs to %d nodes", hostIP, matches)
	}
	if record.ProviderID == "" {
		return domain.NodeRecord{}, common.NotFoundError("node %s has no provider ID", record.Node)
	}

	record.InstanceID, err = domain.ParseInstanceID(record.ProviderID)
	if err != nil {
		return domain.NodeRecord{}, err
	}

	r.logger.Debug("node resolved via API server",
		"internal_ip", record.InternalIP,
		"node", record.Node,
		"instance_id", record.InstanceID)

	return record, nil
}

// hasInternalIP reports whether the node advertises the address as an internal IP
func hasInternalIP(node corev1.Node, hostIP string) bool {
	for _, addr := range node.Status.Addresses {
		if addr.Type == corev1.NodeInternalIP && addr.Address == hostIP {
			return true
		}
	}
	return false
}
