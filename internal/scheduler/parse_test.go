package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tokens := []string{
		"00:00:00",
		"00:00:01",
		"09:59:58",
		"12:30:45",
		"23:59:59",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			target, err := ParseTimestamp(token, now)
			require.NoError(t, err)
			assert.Equal(t, token, FormatTimestamp(target))
		})
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tokens := []string{
		"25:00:00",
		"12:60:00",
		"00:00:60",
		"abc",
		"",
		"12:34",
		"12:34:56:78",
		"1:02:03",
		"aa:bb:cc",
		"-1:00:00",
		"12:0a:00",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := ParseTimestamp(token, now)
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, token, parseErr.Token)
			assert.Contains(t, err.Error(), token)
		})
	}
}

func TestParseTimestampFuture(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 59, 58, 0, time.UTC)

	tests := []struct {
		token string
		delay time.Duration
	}{
		{"10:00:00", 2 * time.Second},
		{"10:00:05", 7 * time.Second},
		{"23:59:59", 14*time.Hour + 1*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			target, err := ParseTimestamp(tt.token, now)
			require.NoError(t, err)
			assert.Equal(t, tt.delay, target.Sub(now))
		})
	}
}

func TestParseTimestampEqualToNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	target, err := ParseTimestamp("12:00:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), target.Sub(now))
}

func TestParseTimestampRollsOverPastTimes(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		token string
		delay time.Duration
	}{
		{"00:00:01", 2 * time.Second},
		{"00:00:02", 3 * time.Second},
		{"00:00:03", 4 * time.Second},
		{"23:59:58", 24*time.Hour - 1*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			target, err := ParseTimestamp(tt.token, now)
			require.NoError(t, err)
			assert.Equal(t, tt.delay, target.Sub(now))
			assert.Equal(t, now.Day()+1, target.Day())
		})
	}
}

func TestParseTimestampKeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)
	target, err := ParseTimestamp("09:30:00", now)
	require.NoError(t, err)
	assert.Equal(t, loc, target.Location())
	assert.Equal(t, 90*time.Minute, target.Sub(now))
}
