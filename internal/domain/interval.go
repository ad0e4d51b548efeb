package domain

import "time"

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
// Adjacent intervals (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// IsValid returns true if End is strictly after Start
func (a Interval) IsValid() bool {
	return a.End.After(a.Start)
}

// OverlapsAny returns the first interval from others overlapping a
func (a Interval) OverlapsAny(others []Interval) (Interval, bool) {
	for _, o := range others {
		if a.Overlaps(o) {
			return o, true
		}
	}
	return Interval{}, false
}

// WallMinutes returns the schedule-matching range of the interval: the local wall-clock minute
// of Start and that minute plus the elapsed length. On DST transition days the end may differ
// from End's wall clock, but the range stays ordered.
func (a Interval) WallMinutes() (int, int) {
	start := a.Start.Hour()*60 + a.Start.Minute()
	return start, start + int(a.End.Sub(a.Start)/time.Minute)
}
