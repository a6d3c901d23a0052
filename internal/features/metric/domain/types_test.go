package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRange() TimeRange {
	return TimeRange{
		From: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
	}
}

func TestTimeRangeContainsBounds(t *testing.T) {
	tr := sampleRange()

	assert.True(t, tr.Contains(tr.From), "range start is inside")
	assert.True(t, tr.Contains(tr.To), "range end is inside")
	assert.True(t, tr.Contains(tr.From.Add(time.Hour)))
	assert.False(t, tr.Contains(tr.From.Add(-time.Second)))
	assert.False(t, tr.Contains(tr.To.Add(time.Second)))
}

func TestTimeRangeValidate(t *testing.T) {
	require.NoError(t, sampleRange().Validate())

	inverted := TimeRange{From: sampleRange().To, To: sampleRange().From}
	assert.Error(t, inverted.Validate(), "start after end is malformed")

	assert.Error(t, TimeRange{To: sampleRange().To}.Validate(), "missing start is malformed")
}

func TestSelectorString(t *testing.T) {
	s := Selector{
		Metric: "kube_pod_info",
		Matchers: []Matcher{
			{Label: "pod", Value: "web-.*", Regex: true},
			{Label: "namespace", Value: "prod"},
		},
	}

	assert.Equal(t, `kube_pod_info{pod=~"web-.*",namespace="prod"}`, s.String())
	assert.Equal(t, "up", Selector{Metric: "up"}.String(), "no matchers renders the bare metric")
}
