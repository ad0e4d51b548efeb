package domain

import "time"

// SlotStatus availability tag of a slot
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotUnavailable SlotStatus = "unavailable"
)

// Slot represents a fixed-granularity window of a day
type Slot struct {
	Start  time.Time
	End    time.Time
	Status SlotStatus
}

// IsAvailable returns true if the slot can be booked
func (s *Slot) IsAvailable() bool {
	return s.Status == SlotAvailable
}

// Interval returns the half-open interval of the slot
func (s *Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}
