package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LocationID  int64     `json:"locationId"`
	ResourceIDs []int64   `json:"resourceIds"`
	ServiceIDs  []int64   `json:"serviceIds"`
	StartAt     time.Time `json:"startAt"`          // RFC 3339 с часовым поясом
	Status      string    `json:"status,omitempty"` // pending (по умолчанию) или confirmed
	ClientName  string    `json:"clientName"`
	ClientPhone *string   `json:"clientPhone,omitempty"`
	ClientEmail *string   `json:"clientEmail,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
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
	ClientName      string  `json:"clientName"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		LocationID:  r.LocationID,
		ResourceIDs: r.ResourceIDs,
		ServiceIDs:  r.ServiceIDs,
		StartAt:     r.StartAt,
		Status:      domain.BookingStatus(r.Status),
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Notes:       r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		LocationID:      resp.LocationID,
		ResourceIDs:     resp.ResourceIDs,
		ServiceIDs:      resp.ServiceIDs,
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ClientName:      resp.ClientName,
		ClientPhone:     resp.ClientPhone,
		ClientEmail:     resp.ClientEmail,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
