package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInternalError    = "внутренняя ошибка сервера"
	msgSlotUnavailable  = "выбранное время недоступно"
	maxRequestBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// UnavailableResponse тело ответа 409, когда валидатор отклонил время
type UnavailableResponse struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	ResourceID   int64  `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	Reason       string `json:"reason"`
	Detail       string `json:"detail,omitempty"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondUnavailable пишет 409 с ресурсом и причиной отказа валидатора
// Ошибка без *availability.ValidationError в цепочке даёт обычный 409
func RespondUnavailable(w http.ResponseWriter, err error) {
	var verr *availability.ValidationError
	if !errors.As(err, &verr) {
		RespondConflict(w, msgSlotUnavailable)
		return
	}
	RespondJSON(w, http.StatusConflict, UnavailableResponse{
		Code:         http.StatusConflict,
		Message:      verr.Error(),
		ResourceID:   verr.ResourceID,
		ResourceName: verr.ResourceName,
		Reason:       verr.Reason.Error(),
		Detail:       verr.Detail,
	})
}
