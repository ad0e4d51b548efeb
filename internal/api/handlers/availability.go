package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const (
	msgLocationNotFound      = "локация не найдена"
	msgResourceNotFound      = "ресурс не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgServiceNotAtLocation  = "услуга недоступна в выбранной локации"
	msgResourceNotAtLocation = "ресурс не относится к выбранной локации"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration       = "суммарная длительность услуг должна быть больше нуля"
	msgInvalidInput          = "некорректные входные данные"
	msgConcurrentUpdate      = "время одновременно бронируется другим запросом, повторите попытку"
)

// RespondAvailabilityError отвечает на бизнес-ошибки сервиса доступности
// Возвращает false, если ошибка к ним не относится и обработчик должен ответить сам
func RespondAvailabilityError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, availability.ErrSlotUnavailable):
		RespondUnavailable(w, err)
	case errors.Is(err, txmanager.ErrRetriesExhausted):
		RespondConflict(w, msgConcurrentUpdate)
	case errors.Is(err, availability.ErrLocationNotFound):
		RespondNotFound(w, msgLocationNotFound)
	case errors.Is(err, availability.ErrResourceNotFound):
		RespondNotFound(w, msgResourceNotFound)
	case errors.Is(err, availability.ErrServiceNotFound):
		RespondNotFound(w, msgServiceNotFound)
	case errors.Is(err, availability.ErrServiceNotAtLocation):
		RespondBadRequest(w, msgServiceNotAtLocation)
	case errors.Is(err, availability.ErrResourceNotAtLocation):
		RespondBadRequest(w, msgResourceNotAtLocation)
	case errors.Is(err, availability.ErrInvalidDate):
		RespondBadRequest(w, msgInvalidDate)
	case errors.Is(err, availability.ErrInvalidDuration):
		RespondBadRequest(w, msgInvalidDuration)
	case errors.Is(err, availability.ErrInvalidInput):
		RespondBadRequest(w, msgInvalidInput)
	default:
		return false
	}
	return true
}
