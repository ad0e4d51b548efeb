package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusAttended  BookingStatus = "attended"
	StatusNoShow    BookingStatus = "no_show"
)

// allowedTransitions status machine: pure status changes are never re-validated against the calendar
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCancelled, StatusAttended, StatusNoShow},
}

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Booking represents an appointment of one or more resources for one or more services
type Booking struct {
	ID          int64
	LocationID  int64
	ResourceIDs []int64
	ServiceIDs  []int64
	StartAt     time.Time
	Status      BookingStatus

	// Sum of the durations of currently attached services, filled on read
	TotalDurationMinutes int

	ClientName  string
	ClientPhone *string
	ClientEmail *string
	Notes       *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EndAt returns start + total duration
func (b *Booking) EndAt() time.Time {
	return b.StartAt.Add(time.Duration(b.TotalDurationMinutes) * time.Minute)
}

// Interval returns the half-open interval occupied by the booking
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt()}
}

// CanTransitionTo returns true if the status machine allows moving to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanBeRescheduled returns true if date, resources or services may still change
func (b *Booking) CanBeRescheduled() bool {
	return IsBlockingStatus(b.Status)
}

// IsBlockingStatus returns true if bookings in this status occupy time
func IsBlockingStatus(s BookingStatus) bool {
	for _, blocking := range BlockingStatuses {
		if s == blocking {
			return true
		}
	}
	return false
}

// BookingInterval is the computed occupancy of an existing booking
type BookingInterval struct {
	BookingID int64
	StartAt   time.Time
	EndAt     time.Time
	Status    BookingStatus
}

// Interval returns the half-open interval
func (b BookingInterval) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}

// OverlapFilter selects bookings of one resource whose computed interval intersects [From, To)
type OverlapFilter struct {
	ResourceID       int64
	LocationID       int64
	From             time.Time
	To               time.Time
	Statuses         []BookingStatus
	ExcludeBookingID *int64
}

// LocationBookingsFilter фильтр для списка бронирований локации
type LocationBookingsFilter struct {
	LocationID int64          // Обязательный параметр
	ResourceID *int64         // Только бронирования ресурса (опционально)
	From       *time.Time     // Начало периода (опционально)
	To         *time.Time     // Конец периода (опционально)
	Status     *BookingStatus // Фильтр по статусу (опционально)
}
