package domain

import (
	"strings"

	"podtrace/internal/common"
)

// NodeRecord is the identity view of one node lookup
type NodeRecord struct {
	// InternalIP is the node's internal address
	InternalIP string
	// ProviderID is the cloud-vendor-formatted node identity,
	// e.g. aws:///ap-south-1a/i-0bb1201147d0daa54
	ProviderID string
	// Node is the node name
	Node string
	// InstanceID is the cloud instance identifier parsed from ProviderID
	InstanceID string
}

// ParseInstanceID extracts the instance ID from a provider ID.
// The instance ID is the substring after the final "/".
func ParseInstanceID(providerID string) (string, error) {
	idx := strings.LastIndex(providerID, "/")
	if idx < 0 {
		return "", common.MalformedProviderIDError("provider id %q has no path delimiter", providerID)
	}

	instanceID := providerID[idx+1:]
	if instanceID == "" {
		return "", common.MalformedProviderIDError("provider id %q ends with its delimiter", providerID)
	}

	return instanceID, nil
}
