package get_location_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidParams     = "некорректные параметры запроса"
	msgInvalidStatus     = "недопустимый статус бронирования"
	msgInvalidTimeRange  = "начало периода должно быть раньше конца"
	msgMissingTenant     = "организация не определена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("GET /locations/{id}/bookings - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	locationID, err := handlers.PathID(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/bookings - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	serviceReq, err := ToServiceRequest(locationID, r)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByLocation(r.Context(), tenant, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("GET /locations/{id}/bookings - Invalid status: location_id=%d", locationID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrInvalidTimeRange):
			h.logger.Warn("GET /locations/{id}/bookings - Invalid time range: location_id=%d", locationID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/bookings - Invalid input: location_id=%d, error=%v", locationID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /locations/{id}/bookings - Failed to get bookings: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/bookings - Bookings retrieved successfully: org=%s, location_id=%d, count=%d",
		tenant.Slug, locationID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
