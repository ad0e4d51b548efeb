package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string `json:"date"`
	ResourceID      int64  `json:"resourceId"`
	LocationID      int64  `json:"locationId"`
	Timezone        string `json:"timezone"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	AvailableCount  int    `json:"availableCount"`
	Slots           []Slot `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	StartAt string `json:"startAt"`
	EndAt   string `json:"endAt"`
	Status  string `json:"status"`
}

// FromDaySlots конвертирует сетку слотов в HTTP response
func FromDaySlots(day *availability.DaySlots) *AvailableSlotsResponse {
	slots := make([]Slot, len(day.Slots))
	available := 0
	for i, slot := range day.Slots {
		slots[i] = Slot{
			StartAt: slot.Start.Format(time.RFC3339),
			EndAt:   slot.End.Format(time.RFC3339),
			Status:  string(slot.Status),
		}
		if slot.IsAvailable() {
			available++
		}
	}

	return &AvailableSlotsResponse{
		Date:            day.Date.Format(domain.DateFormat),
		ResourceID:      day.ResourceID,
		LocationID:      day.LocationID,
		Timezone:        day.Timezone,
		DurationMinutes: day.DurationMinutes,
		AvailableCount:  available,
		Slots:           slots,
	}
}
