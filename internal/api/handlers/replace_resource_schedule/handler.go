package replace_resource_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar/models"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEntry       = "некорректная запись расписания"
	msgResourceNotFound   = "ресурс не найден"
	msgMissingTenant      = "организация не определена"
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

// Handle PUT /api/v1/resources/{resourceId}/schedule
// Полностью заменяет недельное расписание ресурса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("PUT /resources/{id}/schedule - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("PUT /resources/{id}/schedule - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req models.ReplaceScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceSchedule(r.Context(), tenant, resourceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidScheduleEntry):
			h.logger.Warn("PUT /resources/{id}/schedule - Invalid entry: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidEntry+": "+err.Error())

		case errors.Is(err, calendar.ErrResourceNotFound):
			h.logger.Warn("PUT /resources/{id}/schedule - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		default:
			h.logger.Error("PUT /resources/{id}/schedule - Failed to replace schedule: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/{id}/schedule - Schedule replaced: org=%s, resource_id=%d, entries=%d",
		tenant.Slug, resourceID, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}
