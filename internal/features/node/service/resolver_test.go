package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podtrace/internal/common"
	metricdomain "podtrace/internal/features/metric/domain"
)

// mockProvider implements metricdomain.Provider for testing
type mockProvider struct {
	sets         []metricdomain.LabelSet
	err          error
	lastSelector metricdomain.Selector
}

func (m *mockProvider) Series(_ context.Context, selector metricdomain.Selector, _ metricdomain.TimeRange) ([]metricdomain.LabelSet, error) {
	m.lastSelector = selector
	return m.sets, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testRange() metricdomain.TimeRange {
	return metricdomain.TimeRange{
		From: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}
}

func TestResolveNode(t *testing.T) {
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{
			{
				"internal_ip": "10.203.70.123",
				"provider_id": "aws:///ap-south-1a/i-0bb1201147d0daa54",
				"node":        "ip-10-203-70-123.ap-south-1.compute.internal",
			},
		},
	}
	resolver := NewSeriesResolver(provider, "kube_node_info", testLogger())

	record, err := resolver.Resolve(context.Background(), "10.203.70.123", testRange())

	require.NoError(t, err, "known internal IP should resolve")
	assert.Equal(t, "i-0bb1201147d0daa54", record.InstanceID, "instance ID should be parsed from provider ID")
	assert.Equal(t, "aws:///ap-south-1a/i-0bb1201147d0daa54", record.ProviderID)
	assert.Equal(t, "ip-10-203-70-123.ap-south-1.compute.internal", record.Node)
}

func TestResolveBuildsExactSelector(t *testing.T) {
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{
			{"internal_ip": "10.0.0.1", "provider_id": "aws:///zone/i-1"},
		},
	}
	resolver := NewSeriesResolver(provider, "kube_node_info", testLogger())

	_, err := resolver.Resolve(context.Background(), "10.0.0.1", testRange())

	require.NoError(t, err)
	require.Len(t, provider.lastSelector.Matchers, 1)
	assert.Equal(t, "kube_node_info", provider.lastSelector.Metric)
	assert.False(t, provider.lastSelector.Matchers[0].Regex, "internal IP should use an exact matcher")
	assert.Equal(t, "10.0.0.1", provider.lastSelector.Matchers[0].Value)
}

func TestResolveNoSeries(t *testing.T) {
	resolver := NewSeriesResolver(&mockProvider{}, "kube_node_info", testLogger())

	_, err := resolver.Resolve(context.Background(), "10.0.0.9", testRange())

	require.Error(t, err)
	assert.True(t, common.IsNotFound(err), "unknown internal IP should map to not found")
}

func TestResolveAmbiguousProviderIDs(t *testing.T) {
	// Node replaced inside the range: same IP, two provider IDs
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{
			{"internal_ip": "10.0.0.1", "provider_id": "aws:///zone/i-old"},
			{"internal_ip": "10.0.0.1", "provider_id": "aws:///zone/i-new"},
		},
	}
	resolver := NewSeriesResolver(provider, "kube_node_info", testLogger())

	_, err := resolver.Resolve(context.Background(), "10.0.0.1", testRange())

	require.Error(t, err, "reused internal IP must fail rather than guess")
	assert.True(t, common.IsAmbiguousResult(err))
}

func TestResolveMalformedProviderID(t *testing.T) {
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{
			{"internal_ip": "10.0.0.1", "provider_id": "i-0bb1201147d0daa54"},
		},
	}
	resolver := NewSeriesResolver(provider, "kube_node_info", testLogger())

	_, err := resolver.Resolve(context.Background(), "10.0.0.1", testRange())

	require.Error(t, err)
	assert.True(t, common.IsMalformedProviderID(err), "delimiter-free provider ID should be malformed")
}

func TestResolvePropagatesBackendErrors(t *testing.T) {
	provider := &mockProvider{err: common.BackendUnavailableError("query timed out")}
	resolver := NewSeriesResolver(provider, "kube_node_info", testLogger())

	_, err := resolver.Resolve(context.Background(), "10.0.0.1", testRange())

	require.Error(t, err)
	assert.True(t, common.IsBackendUnavailable(err), "backend failures should keep their kind")
}

func TestResolveEmptyHostIP(t *testing.T) {
	resolver := NewSeriesResolver(&mockProvider{}, "kube_node_info", testLogger())

	_, err := resolver.Resolve(context.Background(), "", testRange())

	require.Error(t, err)
	assert.True(t, common.IsInvalidInput(err))
}
