package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowRangesInOffsetZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 2024-05-15 20:00 UTC is Thursday 2024-05-16 04:00 in UTC+8.
	now := time.Date(2024, 5, 15, 20, 0, 0, 0, time.UTC)

	today := WindowToday.Range(now, loc)
	require.Equal(t, time.Date(2024, 5, 16, 0, 0, 0, 0, loc), today.From)
	require.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, loc), today.To)

	week := WindowWeek.Range(now, loc)
	require.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, loc), week.From)
	require.Equal(t, time.Monday, week.From.Weekday())

	month := WindowMonth.Range(now, loc)
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, loc), month.From)
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc), month.To)

	require.Nil(t, WindowLifetime.Range(now, loc))
	require.True(t, today.Contains(now))
	require.False(t, today.Contains(today.To))
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("")
	require.NoError(t, err)
	require.Equal(t, WindowLifetime, w)

	w, err = ParseWindow("month")
	require.NoError(t, err)
	require.Equal(t, WindowMonth, w)

	_, err = ParseWindow("decade")
	require.ErrorIs(t, err, ErrInvalidWindow)
}
