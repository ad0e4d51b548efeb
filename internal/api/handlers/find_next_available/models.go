package find_next_available

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

// NextAvailableResponse HTTP response model
type NextAvailableResponse struct {
	LocationID int64      `json:"locationId"`
	ServiceIDs []int64    `json:"serviceIds"`
	Slots      []NextSlot `json:"slots"`
}

// NextSlot ближайшее свободное время конкретного ресурса
type NextSlot struct {
	ResourceID   int64  `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	StartAt      string `json:"startAt"`
	EndAt        string `json:"endAt"`
}

func FromNextSlots(locationID int64, serviceIDs []int64, found []availability.NextSlot) *NextAvailableResponse {
	slots := make([]NextSlot, len(found))
	for i, s := range found {
		slots[i] = NextSlot{
			ResourceID:   s.ResourceID,
			ResourceName: s.ResourceName,
			StartAt:      s.Start.Format(time.RFC3339),
			EndAt:        s.End.Format(time.RFC3339),
		}
	}
	return &NextAvailableResponse{
		LocationID: locationID,
		ServiceIDs: serviceIDs,
		Slots:      slots,
	}
}
