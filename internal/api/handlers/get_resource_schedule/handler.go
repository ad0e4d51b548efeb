package get_resource_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgResourceNotFound  = "ресурс не найден"
	msgMissingTenant     = "организация не определена"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/schedule
// Ресурс без расписания возвращает пустой список записей
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("GET /resources/{id}/schedule - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/schedule - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), tenant, resourceID)
	if err != nil {
		if errors.Is(err, calendar.ErrResourceNotFound) {
			h.logger.Warn("GET /resources/{id}/schedule - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)
			return
		}

		h.logger.Error("GET /resources/{id}/schedule - Failed to get schedule: resource_id=%d, error=%v",
			resourceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources/{id}/schedule - Schedule retrieved successfully: org=%s, resource_id=%d, entries=%d",
		tenant.Slug, resourceID, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}
