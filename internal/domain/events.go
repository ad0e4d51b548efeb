package domain

import "time"

// Outbox event types consumed by the notification service
const (
	EventBookingCreated       = "booking.created"
	EventBookingConfirmed     = "booking.confirmed"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingRescheduled   = "booking.rescheduled"
	EventBookingStatusChanged = "booking.status_changed"
)

// EventTypeForStatus maps a status transition to the outbox event type
func EventTypeForStatus(status BookingStatus) string {
	switch status {
	case StatusConfirmed:
		return EventBookingConfirmed
	case StatusCancelled:
		return EventBookingCancelled
	default:
		return EventBookingStatusChanged
	}
}

// BookingEvent is the payload written to the outbox
type BookingEvent struct {
	TenantSlug  string        `json:"tenantSlug"`
	BookingID   int64         `json:"bookingId"`
	LocationID  int64         `json:"locationId"`
	ResourceIDs []int64       `json:"resourceIds"`
	ServiceIDs  []int64       `json:"serviceIds"`
	StartAt     time.Time     `json:"startAt"`
	EndAt       time.Time     `json:"endAt"`
	Status      BookingStatus `json:"status"`
	ClientName  string        `json:"clientName"`
	ClientPhone *string       `json:"clientPhone,omitempty"`
	ClientEmail *string       `json:"clientEmail,omitempty"`
}

// NewBookingEvent builds the event payload from a booking
func NewBookingEvent(tenant Tenant, b *Booking) BookingEvent {
	return BookingEvent{
		TenantSlug:  tenant.Slug,
		BookingID:   b.ID,
		LocationID:  b.LocationID,
		ResourceIDs: b.ResourceIDs,
		ServiceIDs:  b.ServiceIDs,
		StartAt:     b.StartAt,
		EndAt:       b.EndAt(),
		Status:      b.Status,
		ClientName:  b.ClientName,
		ClientPhone: b.ClientPhone,
		ClientEmail: b.ClientEmail,
	}
}

// OutboxEvent is a notification event persisted in the same transaction as the booking change
type OutboxEvent struct {
	ID          string
	TenantSlug  string
	AggregateID int64
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}
