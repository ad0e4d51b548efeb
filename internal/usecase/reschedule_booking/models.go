package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на перенос бронирования
// Пустые ResourceIDs/ServiceIDs оставляют текущие значения бронирования
type Request struct {
	BookingID   int64
	StartAt     time.Time
	ResourceIDs []int64
	ServiceIDs  []int64
}

// Response модель ответа с перенесённым бронированием
type Response struct {
	ID              int64
	LocationID      int64
	ResourceIDs     []int64
	ServiceIDs      []int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          string
	UpdatedAt       time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		LocationID:      b.LocationID,
		ResourceIDs:     b.ResourceIDs,
		ServiceIDs:      b.ServiceIDs,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt(),
		DurationMinutes: b.TotalDurationMinutes,
		Status:          string(b.Status),
		UpdatedAt:       b.UpdatedAt,
	}
}
