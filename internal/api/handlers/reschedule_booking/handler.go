package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	rescheduleBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные переноса"
	msgNotFound           = "бронирование не найдено"
	msgNotReschedulable   = "бронирование в этом статусе нельзя перенести"
	msgStartInPast        = "время начала бронирования должно быть в будущем"
	msgMissingTenant      = "организация не определена"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		h.logger.Error("PUT /bookings/{id}/schedule - Tenant missing in context")
		handlers.RespondBadRequest(w, msgMissingTenant)
		return
	}

	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/schedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), tenant, req.ToUseCaseRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/schedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrNotReschedulable):
			h.logger.Warn("PUT /bookings/{id}/schedule - Not reschedulable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotReschedulable)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/schedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, rescheduleBooking.ErrStartInPast):
			h.logger.Warn("PUT /bookings/{id}/schedule - Start in past: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgStartInPast)

		case handlers.RespondAvailabilityError(w, err):
			h.logger.Warn("PUT /bookings/{id}/schedule - Rejected: booking_id=%d, error=%v", bookingID, err)

		default:
			h.logger.Error("PUT /bookings/{id}/schedule - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/schedule - Booking rescheduled: org=%s, booking_id=%d, start=%s",
		tenant.Slug, bookingID, result.StartAt)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
