package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListLocationBookingsRequest запрос на получение бронирований локации
type ListLocationBookingsRequest struct {
	LocationID int64      `json:"locationId"`
	ResourceID *int64     `json:"resourceId,omitempty"` // Фильтр по ресурсу (опционально)
	From       *time.Time `json:"from,omitempty"`       // Начало периода (опционально)
	To         *time.Time `json:"to,omitempty"`         // Конец периода, не включительно (опционально)
	Status     *string    `json:"status,omitempty"`     // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListLocationBookingsRequest) ToDomainFilter() (domain.LocationBookingsFilter, error) {
	filter := domain.LocationBookingsFilter{
		LocationID: r.LocationID,
		ResourceID: r.ResourceID,
		From:       r.From,
		To:         r.To,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	LocationID      int64   `json:"locationId"`
	ResourceIDs     []int64 `json:"resourceIds"`
	ServiceIDs      []int64 `json:"serviceIds"`
	StartAt         string  `json:"startAt"` // RFC 3339
	EndAt           string  `json:"endAt"`   // start + сумма длительностей услуг
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`

	ClientName  string  `json:"clientName"`
	ClientPhone *string `json:"clientPhone,omitempty"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		LocationID:      b.LocationID,
		ResourceIDs:     b.ResourceIDs,
		ServiceIDs:      b.ServiceIDs,
		StartAt:         b.StartAt.Format(time.RFC3339),
		EndAt:           b.EndAt().Format(time.RFC3339),
		DurationMinutes: b.TotalDurationMinutes,
		Status:          string(b.Status),
		ClientName:      b.ClientName,
		ClientPhone:     b.ClientPhone,
		ClientEmail:     b.ClientEmail,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(b.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
