package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripWeekday(t *testing.T) {
	cases := map[string]string{
		"Today, Feb 16, 2025":         "Feb 16, 2025",
		"Monday, February 17, 2025":   "February 17, 2025",
		"tues , Feb 18, 2025":         "Feb 18, 2025",
		"Thurs, Feb 20, 2025":         "Feb 20, 2025",
		"Feb 21, 2025":                "Feb 21, 2025",
		"Sundance Film Fest, Feb 22": "Sundance Film Fest, Feb 22",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripWeekday(in), in)
	}
}

func TestParseShowDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)

	cases := []struct {
		date, clock string
		want        time.Time
	}{
		{"Today, Feb 16, 2025", "7:30pm", time.Date(2025, 2, 16, 19, 30, 0, 0, loc)},
		{"Saturday, March 1, 2025", "10:05 AM", time.Date(2025, 3, 1, 10, 5, 0, 0, loc)},
		{"Tomorrow, Mar 2", "1:00 p.m.", time.Date(2025, 3, 2, 13, 0, 0, 0, loc)},
		{"3/4/2025", "9:15pm", time.Date(2025, 3, 4, 21, 15, 0, 0, loc)},
	}
	for _, c := range cases {
		got := ParseShowDate(c.date, c.clock, loc, now)
		require.NotNil(t, got, c.date)
		assert.True(t, c.want.Equal(*got), "%s %s: got %v", c.date, c.clock, got)
	}
}

func TestParseShowDateInvalid(t *testing.T) {
	now := time.Now()
	assert.Nil(t, ParseShowDate("", "7:30pm", time.UTC, now))
	assert.Nil(t, ParseShowDate("Today, Feb 16, 2025", "", time.UTC, now))
	assert.Nil(t, ParseShowDate("Soon", "whenever", time.UTC, now))
}
