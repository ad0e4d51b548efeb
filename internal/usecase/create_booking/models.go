package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	LocationID  int64                // ID локации
	ResourceIDs []int64              // Ресурсы, которые займёт бронирование
	ServiceIDs  []int64              // Услуги, длительности суммируются
	StartAt     time.Time            // Начало бронирования
	Status      domain.BookingStatus // pending (по умолчанию) или confirmed
	ClientName  string               // Имя клиента (обязательно)
	ClientPhone *string              // Телефон (опционально)
	ClientEmail *string              // Email (опционально)
	Notes       *string              // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	LocationID      int64
	ResourceIDs     []int64
	ServiceIDs      []int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          string

	ClientName  string
	ClientPhone *string
	ClientEmail *string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
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
		ClientName:      b.ClientName,
		ClientPhone:     b.ClientPhone,
		ClientEmail:     b.ClientEmail,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
