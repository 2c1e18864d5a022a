package httpclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeHeaders(t *testing.T) {
	defaults := map[string]string{"A": "1"}
	merged := mergeHeaders(defaults, map[string]string{"A": "2", "B": "3"})

	require.Equal(t, map[string]string{"A": "2", "B": "3"}, merged)
	require.Equal(t, map[string]string{"A": "1"}, defaults)
}

func TestMergeHeadersCanonicalizes(t *testing.T) {
	merged := mergeHeaders(
		map[string]string{"Content-Type": "application/json", "x-api-key": "k1"},
		map[string]string{"content-type": "text/csv"},
	)
	require.Equal(t, map[string]string{"Content-Type": "text/csv", "X-Api-Key": "k1"}, merged)
}

func TestMergeParams(t *testing.T) {
	defaults := map[string]string{"limit": "10"}
	overrides := map[string]string{"limit": "20", "Offset": "5"}

	merged := mergeParams(defaults, overrides)
	require.Equal(t, map[string]string{"limit": "20", "Offset": "5"}, merged)

	merged["limit"] = "mutated"
	require.Equal(t, map[string]string{"limit": "10"}, defaults)
	require.Equal(t, "20", overrides["limit"])

	require.Empty(t, mergeParams(nil, nil))
}
