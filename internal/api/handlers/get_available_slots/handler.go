package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidServiceIDs = "некорректный список ID услуг"
	msgMissingServiceIDs = "список ID услуг обязателен"
	msgMissingDate       = "дата обязательна"
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

// Handle GET /api/v1/resources/{resourceId}/slots
// Query params: date (required, YYYY-MM-DD), serviceIds (required, "1,2")
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("GET /resources/{id}/slots - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/slots - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /resources/{id}/slots - Missing date: resource_id=%d", resourceID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	serviceIDs, err := handlers.QueryIDList(r, "serviceIds")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/slots - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}
	if len(serviceIDs) == 0 {
		h.logger.Warn("GET /resources/{id}/slots - Missing service IDs: resource_id=%d", resourceID)
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	day, err := h.service.ComputeSlots(r.Context(), tenant, availability.ComputeSlotsRequest{
		ResourceID: resourceID,
		Date:       date,
		ServiceIDs: serviceIDs,
	})
	if err != nil {
		if handlers.RespondAvailabilityError(w, err) {
			h.logger.Warn("GET /resources/{id}/slots - Rejected: resource_id=%d, date=%s, error=%v", resourceID, date, err)
			return
		}
		h.logger.Error("GET /resources/{id}/slots - Failed to compute slots: resource_id=%d, date=%s, error=%v",
			resourceID, date, err)
		handlers.RespondInternalError(w)
		return
	}

	response := FromDaySlots(day)

	h.logger.Info("GET /resources/{id}/slots - Slots computed: org=%s, resource_id=%d, date=%s, available=%d/%d",
		tenant.Slug, resourceID, date, response.AvailableCount, len(response.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
