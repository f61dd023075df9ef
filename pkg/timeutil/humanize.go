package timeutil

import (
	"fmt"
	"time"
)

// Humanize renders the distance between t and now as a relative-time
// phrase ("a few seconds ago", "3 hours ago", "in 2 days"). Buckets follow
// the common moment.js thresholds.
func Humanize(t, now time.Time) string {
	d := now.Sub(t)

	future := d < 0
	if future {
		d = -d
	}

	phrase := spanPhrase(d)
	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

// HumanizeUnix renders a unix-seconds timestamp relative to now.
func HumanizeUnix(sec int64, now time.Time) string {
	return Humanize(time.Unix(sec, 0), now)
}

func spanPhrase(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		month = 30 * day
		year  = 365 * day
	)

	switch {
	case d < 45*time.Second:
		return "a few seconds"
	case d < 90*time.Second:
		return "a minute"
	case d < 45*time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Round(time.Minute)/time.Minute))
	case d < 90*time.Minute:
		return "an hour"
	case d < 22*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Round(time.Hour)/time.Hour))
	case d < 36*time.Hour:
		return "a day"
	case d < 26*day:
		return fmt.Sprintf("%d days", int(d.Round(day)/day))
	case d < 45*day:
		return "a month"
	case d < 11*month:
		return fmt.Sprintf("%d months", int(d.Round(month)/month))
	case d < 18*month:
		return "a year"
	default:
		return fmt.Sprintf("%d years", int(d.Round(year)/year))
	}
}
