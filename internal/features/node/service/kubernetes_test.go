package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"podtrace/internal/common"
)

func newNode(name, internalIP, providerID string) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec:       corev1.NodeSpec{ProviderID: providerID},
		Status: corev1.NodeStatus{
			Addresses: []corev1.NodeAddress{
				{Type: corev1.NodeInternalIP, Address: internalIP},
				{Type: corev1.NodeHostName, Address: name},
			},
		},
	}
}

func TestKubeResolveNode(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		newNode("worker-1", "10.203.70.123", "aws:///ap-south-1a/i-0bb1201147d0daa54"),
		newNode("worker-2", "10.203.70.124", "aws:///ap-south-1a/i-0000000000000000a"),
	)
	resolver := NewKubeResolver(clientset, testLogger())

	record, err := resolver.Resolve(context.Background(), "10.203.70.123", testRange())

	require.NoError(t, err, "registered node should resolve")
	assert.Equal(t, "worker-1", record.Node)
	assert.Equal(t, "i-0bb1201147d0daa54", record.InstanceID, "instance ID should come from spec.providerID")
}

func TestKubeResolveUnknownIP(t *testing.T) {
	clientset := fake.NewSimpleClientset(newNode("worker-1", "10.0.0.1", "aws:///zone/i-1"))
	resolver := NewKubeResolver(clientset, testLogger())

	_, err := resolver.Resolve(context.Background(), "10.0.0.9", testRange())

	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
}

func TestKubeResolveMissingProviderID(t *testing.T) {
	clientset := fake.NewSimpleClientset(newNode("worker-1", "10.0.0.1", ""))
	resolver := NewKubeResolver(clientset, testLogger())

	_, err := resolver.Resolve(context.Background(), "10.0.0.1", testRange())

	require.Error(t, err, "node without provider ID cannot identify an instance")
	assert.True(t, common.IsNotFound(err))
}

func TestKubeResolveMalformedProviderID(t *testing.T) {
	clientset := fake.NewSimpleClientset(newNode("worker-1", "10.0.0.1", "i-nodelimiter"))
	resolver := NewKubeResolver(clientset, testLogger())

	_, err := resolver.Resolve(context.Background(), "10.0.0.1", testRange())

	require.Error(t, err)
	assert.True(t, common.IsMalformedProviderID(err))
}
