package create_block

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
	msgInvalidTimeRange   = "конец блокировки должен быть позже начала"
	msgInvalidInput       = "некорректные данные блокировки"
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

// Handle POST /api/v1/resources/{resourceId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("POST /resources/{id}/blocks - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("POST /resources/{id}/blocks - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req models.CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	block, err := h.service.CreateBlock(r.Context(), tenant, resourceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidTimeRange):
			h.logger.Warn("POST /resources/{id}/blocks - Invalid time range: resource_id=%d", resourceID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("POST /resources/{id}/blocks - Invalid input: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, calendar.ErrResourceNotFound):
			h.logger.Warn("POST /resources/{id}/blocks - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		default:
			h.logger.Error("POST /resources/{id}/blocks - Failed to create block: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/blocks - Block created: org=%s, resource_id=%d, block_id=%d",
		tenant.Slug, resourceID, block.ID)
	handlers.RespondJSON(w, http.StatusCreated, block)
}
