// Package timefmt renders durations and time offsets in the compact
// human form used in prompts and retry reporting.
package timefmt

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as its largest whole unit:
// "45 seconds", "5 minutes", "2 hours", "3 days". Sub-second durations
// render as "moments".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	switch {
	case d < time.Second:
		return "moments"
	case d < time.Minute:
		return plural(int(d.Seconds()), "second")
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Hours()/24), "day")
	}
}

// FormatOffset renders t relative to now: "in 2 hours", "5 minutes
// ago", or "now" when the two are within a second of each other.
func FormatOffset(t, now time.Time) string {
	d := t.Sub(now)
	if d > -time.Second && d < time.Second {
		return "now"
	}
	if d > 0 {
		return "in " + FormatDuration(d)
	}
	return FormatDuration(-d) + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
