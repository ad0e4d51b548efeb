package availability

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDate возвращается, если дата не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date")

	// ErrLocationNotFound возвращается, когда локация не существует
	ErrLocationNotFound = errors.New("location does not exist")

	// ErrResourceNotFound возвращается, когда ресурс не существует
	ErrResourceNotFound = errors.New("resource does not exist")

	// ErrServiceNotFound возвращается, когда услуга не существует
	ErrServiceNotFound = errors.New("service does not exist")

	// ErrServiceNotAtLocation возвращается, когда услуга принадлежит другой локации
	ErrServiceNotAtLocation = errors.New("service does not belong to the location")

	// ErrResourceNotAtLocation возвращается, когда ресурс принадлежит другой локации
	ErrResourceNotAtLocation = errors.New("resource does not belong to the location")

	// ErrInvalidDuration возвращается, когда суммарная длительность услуг равна нулю
	ErrInvalidDuration = errors.New("total service duration must be positive")

	// ErrSlotUnavailable общий признак конфликта доступности, см. ValidationError
	ErrSlotUnavailable = errors.New("slot unavailable")

	// Причины отказа валидатора
	ErrNoSchedule         = errors.New("no schedule defined for this day")
	ErrOutsideHours       = errors.New("outside available hours")
	ErrOverlappingBooking = errors.New("overlapping appointment")
	ErrBlockInEffect      = errors.New("time block in effect")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)

// ValidationError отказ валидатора по конкретному ресурсу
// errors.Is(err, ErrSlotUnavailable) и errors.Is(err, <причина>) выполняются оба
type ValidationError struct {
	ResourceID   int64
	ResourceName string
	Reason       error
	Detail       string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("resource %q (id=%d): %v", e.ResourceName, e.ResourceID, e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ValidationError) Unwrap() []error {
	return []error{e.Reason, ErrSlotUnavailable}
}

// reasonLabel короткая метка причины для метрик
func reasonLabel(reason error) string {
	switch {
	case errors.Is(reason, ErrNoSchedule):
		return "no_schedule"
	case errors.Is(reason, ErrOutsideHours):
		return "outside_hours"
	case errors.Is(reason, ErrOverlappingBooking):
		return "overlapping_booking"
	case errors.Is(reason, ErrBlockInEffect):
		return "block"
	default:
		return "other"
	}
}
