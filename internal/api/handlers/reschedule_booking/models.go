package reschedule_booking

import (
	"time"

	rescheduleBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
// Не переданные resourceIds/serviceIds остаются прежними
type RescheduleBookingRequest struct {
	StartAt     time.Time `json:"startAt"`
	ResourceIDs []int64   `json:"resourceIds,omitempty"`
	ServiceIDs  []int64   `json:"serviceIds,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	LocationID      int64   `json:"locationId"`
	ResourceIDs     []int64 `json:"resourceIds"`
	ServiceIDs      []int64 `json:"serviceIds"`
	StartAt         string  `json:"startAt"`
	EndAt           string  `json:"endAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	UpdatedAt       string  `json:"updatedAt"`
}

func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID int64) *rescheduleBooking.Request {
	return &rescheduleBooking.Request{
		BookingID:   bookingID,
		StartAt:     r.StartAt,
		ResourceIDs: r.ResourceIDs,
		ServiceIDs:  r.ServiceIDs,
	}
}

func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		LocationID:      resp.LocationID,
		ResourceIDs:     resp.ResourceIDs,
		ServiceIDs:      resp.ServiceIDs,
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
