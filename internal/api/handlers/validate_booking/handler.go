package validate_booking

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenant      = "организация не определена"
)

type Handler struct {
	validator ConflictValidator
	logger    Logger
}

func NewHandler(validator ConflictValidator, logger Logger) *Handler {
	return &Handler{
		validator: validator,
		logger:    logger,
	}
}

// Handle POST /api/v1/bookings/validate
// Проверка кандидата без создания бронирования: 200 если время свободно, 409 с причиной иначе
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("POST /bookings/validate - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	var req ValidateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.validator.Validate(r.Context(), tenant, req.ToValidateRequest()); err != nil {
		if handlers.RespondAvailabilityError(w, err) {
			h.logger.Info("POST /bookings/validate - Rejected: location_id=%d, resources=%v, error=%v",
				req.LocationID, req.ResourceIDs, err)
			return
		}
		h.logger.Error("POST /bookings/validate - Validation failed: location_id=%d, error=%v", req.LocationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /bookings/validate - Available: org=%s, location_id=%d, resources=%v",
		tenant.Slug, req.LocationID, req.ResourceIDs)
	handlers.RespondJSON(w, http.StatusOK, ValidateBookingResponse{Available: true})
}
