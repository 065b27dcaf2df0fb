package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"empty", "", 0},
		{"garbage", "not a duration", 0},
		{"seconds", "45s", 45},
		{"minutes", "45m", 2700},
		{"hours and minutes", "1h30m", 5400},
		{"days", "2d", 172800},
		{"all units", "1d2h3m4s", 93784},
		{"uppercase", "1H30M", 5400},
		{"tokens out of order", "30m1h", 5400},
		{"noise between tokens", "lock for 1h and 30m please", 5400},
		{"bare number without unit", "90", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{5400, "1h30m"},
		{86400, "1d"},
		{93784, "1d2h3m4s"},
		{172800, "2d"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.seconds))
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	samples := []int64{0, 1, 59, 60, 61, 3599, 3600, 5400, 86399, 86400, 172800, 90061, 123456789}
	for _, n := range samples {
		require.Equal(t, n, Parse(Format(n)), "round trip for %d", n)
	}

	for n := int64(0); n < 5000; n += 7 {
		require.Equal(t, n, Parse(Format(n)))
	}
}
