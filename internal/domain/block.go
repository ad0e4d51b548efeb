package domain

import "time"

// Block is an ad-hoc unavailability interval of a resource (time off, breaks).
// It always takes precedence over the schedule.
type Block struct {
	ID         int64
	ResourceID int64
	StartAt    time.Time
	EndAt      time.Time
	Reason     string
	CreatedAt  time.Time
}

// Interval returns the half-open interval of the block
func (b *Block) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}
