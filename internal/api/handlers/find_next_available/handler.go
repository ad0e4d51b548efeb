package find_next_available

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidServiceIDs = "некорректный список ID услуг"
	msgMissingServiceIDs = "список ID услуг обязателен"
	msgInvalidLimit      = "некорректный лимит"
	msgMissingTenant     = "организация не определена"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/next-available
// Query params: serviceIds (required, "1,2"), limit (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("GET /locations/{id}/next-available - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	locationID, err := handlers.PathID(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/next-available - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	serviceIDs, err := handlers.QueryIDList(r, "serviceIds")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/next-available - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}
	if len(serviceIDs) == 0 {
		h.logger.Warn("GET /locations/{id}/next-available - Missing service IDs: location_id=%d", locationID)
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	// 0 означает лимит по умолчанию, больше максимума сервис обрежет сам
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.logger.Warn("GET /locations/{id}/next-available - Invalid limit: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	found, err := h.service.FindNext(r.Context(), tenant, availability.FindNextRequest{
		ServiceIDs: serviceIDs,
		LocationID: locationID,
		Limit:      limit,
	})
	if err != nil {
		if handlers.RespondAvailabilityError(w, err) {
			h.logger.Warn("GET /locations/{id}/next-available - Rejected: location_id=%d, error=%v", locationID, err)
			return
		}
		h.logger.Error("GET /locations/{id}/next-available - Search failed: location_id=%d, services=%v, error=%v",
			locationID, serviceIDs, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /locations/{id}/next-available - Found %d slots: org=%s, location_id=%d, services=%v",
		len(found), tenant.Slug, locationID, serviceIDs)
	handlers.RespondJSON(w, http.StatusOK, FromNextSlots(locationID, serviceIDs, found))
}
