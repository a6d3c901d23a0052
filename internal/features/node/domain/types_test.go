package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podtrace/internal/common"
)

func TestParseInstanceID(t *testing.T) {
	tests := []struct {
		name       string
		providerID string
		want       string
	}{
		{
			name:       "aws provider id",
			providerID: "aws:///ap-south-1a/i-0bb1201147d0daa54",
			want:       "i-0bb1201147d0daa54",
		},
		{
			name:       "gce provider id",
			providerID: "gce://my-project/us-central1-a/gke-node-1",
			want:       "gke-node-1",
		},
		{
			name:       "bare path",
			providerID: "zone/i-abc123",
			want:       "i-abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInstanceID(tt.providerID)

			require.NoError(t, err, "well-formed provider IDs should parse")
			assert.Equal(t, tt.want, got, "instance ID is the suffix after the last slash")
		})
	}
}

func TestParseInstanceIDNoDelimiter(t *testing.T) {
	_, err := ParseInstanceID("i-0bb1201147d0daa54")

	require.Error(t, err, "provider ID without a slash must fail")
	assert.True(t, common.IsMalformedProviderID(err), "failure kind should be malformed provider id")
}

func TestParseInstanceIDTrailingDelimiter(t *testing.T) {
	_, err := ParseInstanceID("aws:///ap-south-1a/")

	require.Error(t, err, "empty suffix must fail")
	assert.True(t, common.IsMalformedProviderID(err))
}
