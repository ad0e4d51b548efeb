package get_location_bookings

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Query params: resourceId, from, to (RFC 3339), status (все опциональны)
func ToServiceRequest(locationID int64, r *http.Request) (*models.ListLocationBookingsRequest, error) {
	req := &models.ListLocationBookingsRequest{LocationID: locationID}

	q := r.URL.Query()

	if raw := q.Get("resourceId"); raw != "" {
		resourceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || resourceID <= 0 {
			return nil, fmt.Errorf("invalid resourceId %q", raw)
		}
		req.ResourceID = &resourceID
	}

	from, err := handlers.QueryTime(r, "from")
	if err != nil {
		return nil, err
	}
	req.From = from

	to, err := handlers.QueryTime(r, "to")
	if err != nil {
		return nil, err
	}
	req.To = to

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}
