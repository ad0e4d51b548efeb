package domain

import (
	"time"
)

// Location is a physical site ("sede") of an organization
type Location struct {
	ID       int64
	Name     string
	Timezone string // IANA name, e.g. "America/Bogota"
}

// TimeLocation resolves the IANA time zone of the location, UTC when empty
func (l *Location) TimeLocation() (*time.Location, error) {
	if l.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(l.Timezone)
}

// Resource is a bookable staff member or asset
type Resource struct {
	ID         int64
	LocationID int64
	Name       string
	ServiceIDs []int64
}

// Service is a bookable offering with a fixed duration
type Service struct {
	ID              int64
	LocationID      int64
	Name            string
	DurationMinutes int
	Price           float64
}

// TotalDurationMinutes sums durations of the services
func TotalDurationMinutes(services []*Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}
