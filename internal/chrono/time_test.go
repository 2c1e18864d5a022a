package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedTime(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	clock := FixedTime{At: at}
	require.Equal(t, time.UTC, clock.Now().Location())
	require.True(t, clock.Now().Equal(at))
}

func TestStandardTime(t *testing.T) {
	before := time.Now()
	now := StandardTime{}.Now()
	require.Equal(t, time.UTC, now.Location())
	require.False(t, now.Before(before.Truncate(time.Second)))
}
