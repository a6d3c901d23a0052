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

func TestLocateSingleHostIP(t *testing.T) {
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{
			{
				"pod":       "mock-inteview-backend-prod-main-7d9f8",
				"namespace": "prod",
				"host_ip":   "10.203.70.123",
				"node":      "ip-10-203-70-123.ap-south-1.compute.internal",
			},
		},
	}
	locator := NewSeriesLocator(provider, "kube_pod_info", testLogger())

	record, err := locator.Locate(context.Background(), "mock-inteview-backend-prod-main-.*", testRange())

	require.NoError(t, err, "single-host pattern should resolve")
	assert.Equal(t, "10.203.70.123", record.HostIP, "host IP should come from the series labels")
	assert.Equal(t, "prod", record.Namespace)
	assert.Equal(t, "mock-inteview-backend-prod-main-7d9f8", record.Pod)
}

func TestLocateBuildsRegexSelector(t *testing.T) {
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{{"pod": "web-1", "host_ip": "10.0.0.1"}},
	}
	locator := NewSeriesLocator(provider, "kube_pod_info", testLogger())

	_, err := locator.Locate(context.Background(), "web-.*", testRange())

	require.NoError(t, err)
	require.Len(t, provider.lastSelector.Matchers, 1)
	assert.Equal(t, "kube_pod_info", provider.lastSelector.Metric)
	assert.True(t, provider.lastSelector.Matchers[0].Regex, "pod pattern should use a regex matcher")
	assert.Equal(t, "web-.*", provider.lastSelector.Matchers[0].Value)
}

func TestLocateSameHostAcrossRestarts(t *testing.T) {
	// A pod restarted on the same node yields several series with one host_ip
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{
			{"pod": "web-1-abc", "host_ip": "10.0.0.1", "namespace": "prod"},
			{"pod": "web-1-def", "host_ip": "10.0.0.1", "namespace": "prod"},
		},
	}
	locator := NewSeriesLocator(provider, "kube_pod_info", testLogger())

	record, err := locator.Locate(context.Background(), "web-1-.*", testRange())

	require.NoError(t, err, "identical host IPs are not ambiguous")
	assert.Equal(t, "10.0.0.1", record.HostIP)
}

func TestLocateAmbiguousHostIPs(t *testing.T) {
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{
			{"pod": "web-1", "host_ip": "10.0.0.1"},
			{"pod": "web-2", "host_ip": "10.0.0.2"},
		},
	}
	locator := NewSeriesLocator(provider, "kube_pod_info", testLogger())

	_, err := locator.Locate(context.Background(), "web-.*", testRange())

	require.Error(t, err, "two distinct host IPs must fail")
	assert.True(t, common.IsAmbiguousResult(err), "failure kind should be ambiguous result")
}

func TestLocateNoSeries(t *testing.T) {
	locator := NewSeriesLocator(&mockProvider{}, "kube_pod_info", testLogger())

	_, err := locator.Locate(context.Background(), "ghost-.*", testRange())

	require.Error(t, err)
	assert.True(t, common.IsNotFound(err), "zero matching series should map to not found")
}

func TestLocateSeriesWithoutHostIP(t *testing.T) {
	provider := &mockProvider{
		sets: []metricdomain.LabelSet{{"pod": "web-1", "namespace": "prod"}},
	}
	locator := NewSeriesLocator(provider, "kube_pod_info", testLogger())

	_, err := locator.Locate(context.Background(), "web-.*", testRange())

	require.Error(t, err, "series without host_ip cannot resolve placement")
	assert.True(t, common.IsNotFound(err))
}

func TestLocatePropagatesBackendErrors(t *testing.T) {
	provider := &mockProvider{err: common.BackendUnavailableError("query timed out")}
	locator := NewSeriesLocator(provider, "kube_pod_info", testLogger())

	_, err := locator.Locate(context.Background(), "web-.*", testRange())

	require.Error(t, err)
	assert.True(t, common.IsBackendUnavailable(err), "backend failures should keep their kind")
}

func TestLocateEmptyPattern(t *testing.T) {
	locator := NewSeriesLocator(&mockProvider{}, "kube_pod_info", testLogger())

	_, err := locator.Locate(context.Background(), "", testRange())

	require.Error(t, err)
	assert.True(t, common.IsInvalidInput(err), "empty pattern should be rejected as invalid input")
}
