// Package signal derives discovery tags for threads from reply count and
// recency. Tags are computed at read time and never persisted.
package signal

import "time"

type Signal string

const (
	Unanswered Signal = "unanswered"
	Active     Signal = "active"
	Popular    Signal = "popular"
)

// Filter is a Signal or the catch-all "all".
type Filter string

const FilterAll Filter = "all"

const (
	// ActiveWindow is how far back LastActivity may be for a thread to count as active.
	ActiveWindow = 24 * time.Hour

	// PopularThreshold is the minimum reply count for a thread to count as popular.
	PopularThreshold = 5
)

type Set struct {
	Unanswered bool
	Active     bool
	Popular    bool
}

// Classify computes the signal set for a thread. Signals are independent,
// not mutually exclusive. A zero lastActivity is treated as never active.
func Classify(replies int, lastActivity time.Time, now time.Time) Set {
	return Set{
		Unanswered: replies == 0,
		Active:     !lastActivity.IsZero() && now.Sub(lastActivity) <= ActiveWindow,
		Popular:    replies >= PopularThreshold,
	}
}

// Matches reports whether a thread with the given reply count and activity
// passes the filter. FilterAll matches everything.
func Matches(f Filter, replies int, lastActivity time.Time, now time.Time) bool {
	if f == FilterAll {
		return true
	}
	set := Classify(replies, lastActivity, now)
	switch Signal(f) {
	case Unanswered:
		return set.Unanswered
	case Active:
		return set.Active
	case Popular:
		return set.Popular
	}
	return false
}

// ParseFilter maps a raw query value to a Filter, falling back to FilterAll
// on anything unknown. Invalid input never errors.
func ParseFilter(raw string) Filter {
	switch Filter(raw) {
	case FilterAll, Filter(Unanswered), Filter(Active), Filter(Popular):
		return Filter(raw)
	}
	return FilterAll
}
