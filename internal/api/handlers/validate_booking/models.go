package validate_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	LocationID       int64     `json:"locationId"`
	ResourceIDs      []int64   `json:"resourceIds"`
	ServiceIDs       []int64   `json:"serviceIds"`
	StartAt          time.Time `json:"startAt"`
	ExcludeBookingID *int64    `json:"excludeBookingId,omitempty"`
}

// ValidateBookingResponse ответ при свободном времени
type ValidateBookingResponse struct {
	Available bool `json:"available"`
}

func (r *ValidateBookingRequest) ToValidateRequest() availability.ValidateRequest {
	return availability.ValidateRequest{
		LocationID:       r.LocationID,
		ServiceIDs:       r.ServiceIDs,
		ResourceIDs:      r.ResourceIDs,
		Start:            r.StartAt,
		ExcludeBookingID: r.ExcludeBookingID,
	}
}
