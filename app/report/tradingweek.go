// Package report derives trading-week aggregate views from the
// persisted sale set. Trading weeks are fixed 7-day buckets anchored to
// Tuesday 14:00 rather than calendar weeks; week 0 is the bucket
// containing "now", negative numbers are past weeks.
package report

import (
	"math"
	"time"
)

const (
	anchorWeekday = time.Tuesday
	anchorHour    = 14
)

// CurrentWeekStart returns the most recent anchor boundary at or before
// now, in now's location. An instant exactly on the boundary starts the
// new week.
func CurrentWeekStart(now time.Time) time.Time {
	daysSinceAnchor := (int(now.Weekday()) - int(anchorWeekday) + 7) % 7

	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	anchor := midnight.AddDate(0, 0, -daysSinceAnchor).Add(anchorHour * time.Hour)

	if now.Before(anchor) {
		anchor = anchor.AddDate(0, 0, -7)
	}

	return anchor
}

// WeekNumber maps a sale instant to its trading-week number relative to
// now. The week number shifts whenever now crosses an anchor boundary,
// so it must be recomputed per report, never cached across requests.
// Every instant satisfies start <= instant < end for its own week's
// WeekBounds.
func WeekNumber(saleTime, now time.Time) int {
	// Estimate from absolute time, then settle against the wall-clock
	// bounds: a week spanning a DST shift is not exactly 168 hours
	// long, so the estimate can be off by one.
	diff := saleTime.Sub(CurrentWeekStart(now))
	week := int(math.Floor(diff.Hours() / (24 * 7)))

	for {
		start, end := WeekBounds(week, now)
		switch {
		case saleTime.Before(start):
			week--
		case !saleTime.Before(end):
			week++
		default:
			return week
		}
	}
}

// WeekBounds returns the [start, end) instants of the given trading
// week relative to now.
func WeekBounds(weekNumber int, now time.Time) (time.Time, time.Time) {
	start := CurrentWeekStart(now).AddDate(0, 0, weekNumber*7)
	return start, start.AddDate(0, 0, 7)
}
