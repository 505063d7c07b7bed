// Package recurrence generates the day sequences that medication schedules
// expand over.
package recurrence

import (
	"iter"
	"time"
)

// DefaultHorizon is how far past today an open-ended schedule is expanded.
const DefaultHorizon = 30

// Days yields every calendar day from start through end inclusive, each at
// midnight UTC. It yields nothing when end is before start. The sequence can
// be ranged over any number of times.
func Days(start, end time.Time) iter.Seq[time.Time] {
	first := truncateDay(start)
	last := truncateDay(end)

	return func(yield func(time.Time) bool) {
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Count returns the number of days Days(start, end) yields.
func Count(start, end time.Time) int {
	first := truncateDay(start)
	last := truncateDay(end)
	if last.Before(first) {
		return 0
	}
	return int(last.Sub(first).Hours()/24) + 1
}

// EndOrHorizon returns end when set, otherwise today plus horizon days.
func EndOrHorizon(end *time.Time, today time.Time, horizon int) time.Time {
	if end != nil {
		return truncateDay(*end)
	}
	return truncateDay(today).AddDate(0, 0, horizon)
}

// truncateDay keeps the calendar date of t as seen in t's own location.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
