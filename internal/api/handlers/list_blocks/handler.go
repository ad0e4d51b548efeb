package list_blocks

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar/models"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidParams     = "некорректные параметры запроса"
	msgInvalidTimeRange  = "начало периода должно быть раньше конца"
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

// Handle GET /api/v1/resources/{resourceId}/blocks
// Query params: from, to (RFC 3339, опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("GET /resources/{id}/blocks - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/blocks - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	from, err := handlers.QueryTime(r, "from")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/blocks - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	to, err := handlers.QueryTime(r, "to")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/blocks - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListBlocks(r.Context(), tenant, resourceID, &models.ListBlocksRequest{From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidTimeRange):
			h.logger.Warn("GET /resources/{id}/blocks - Invalid time range: resource_id=%d", resourceID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, calendar.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/blocks - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		default:
			h.logger.Error("GET /resources/{id}/blocks - Failed to list blocks: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/blocks - Blocks retrieved successfully: org=%s, resource_id=%d, count=%d",
		tenant.Slug, resourceID, len(result.Blocks))
	handlers.RespondJSON(w, http.StatusOK, result)
}
