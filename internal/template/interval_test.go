package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntervalUnits(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"5s", 5 * time.Second},
		{"10m", 10 * time.Minute},
		{"2h", 2 * time.Hour},
		{"1d", 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"1h30m", 90 * time.Minute},
	}
	for _, c := range cases {
		iv, err := ParseInterval(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, iv.Duration, c.in)
	}
}

func TestParseIntervalCalendarUnits(t *testing.T) {
	iv, err := ParseInterval("1M")
	require.NoError(t, err)
	assert.Equal(t, 1, iv.Months)

	base := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.February, 15, 12, 0, 0, 0, time.UTC), iv.From(base))

	iv, err = ParseInterval("1y")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, time.January, 15, 12, 0, 0, 0, time.UTC), iv.From(base))
}

func TestParseIntervalRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "s", "5", "5x", "abc", "-5s", "0s"} {
		_, err := ParseInterval(in)
		assert.Error(t, err, in)
	}
}
