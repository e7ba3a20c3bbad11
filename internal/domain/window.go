package domain

import (
	"fmt"
	"time"
)

type Window string

const (
	WindowToday    Window = "today"
	WindowWeek     Window = "week"
	WindowMonth    Window = "month"
	WindowLifetime Window = "lifetime"
)

var StandardWindows = []Window{WindowToday, WindowWeek, WindowMonth, WindowLifetime}

func ParseWindow(raw string) (Window, error) {
	switch w := Window(raw); w {
	case "":
		return WindowLifetime, nil
	case WindowToday, WindowWeek, WindowMonth, WindowLifetime:
		return w, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, raw)
}

// Range returns the window boundaries around now in loc. Lifetime has no
// range. Weeks start on Monday.
func (w Window) Range(now time.Time, loc *time.Location) *DateRange {
	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch w {
	case WindowToday:
		return &DateRange{From: dayStart, To: dayStart.AddDate(0, 0, 1)}
	case WindowWeek:
		offset := (int(dayStart.Weekday()) + 6) % 7
		start := dayStart.AddDate(0, 0, -offset)
		return &DateRange{From: start, To: start.AddDate(0, 0, 7)}
	case WindowMonth:
		start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		return &DateRange{From: start, To: start.AddDate(0, 1, 0)}
	}
	return nil
}
