package domain

import (
	"fmt"
	"time"
)

// Intervals is the discrete set of auto-change periods the user may pick.
var Intervals = []time.Duration{
	10 * time.Second,
	15 * time.Minute,
	30 * time.Minute,
	45 * time.Minute,
	time.Hour,
	2 * time.Hour,
}

// Settings holds the persisted user preferences. Launch-at-login is
// deliberately absent: that state is delegated to the OS autostart entry
// and queried live.
type Settings struct {
	AutoChange bool
	Interval   time.Duration
}

// DefaultSettings returns the first-run preferences.
func DefaultSettings() Settings {
	return Settings{
		AutoChange: true,
		Interval:   30 * time.Minute,
	}
}

// ValidInterval reports whether d is one of the allowed interval choices.
func ValidInterval(d time.Duration) bool {
	for _, v := range Intervals {
		if v == d {
			return true
		}
	}
	return false
}

// IntervalLabel renders an interval choice the way the settings menu
// displays it: "10s", "15m", "1h".
func IntervalLabel(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
