package reschedule_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrNotReschedulable возвращается для бронирований в конечном статусе
	ErrNotReschedulable = errors.New("reschedule_booking: booking in this status cannot be rescheduled")

	// ErrStartInPast возвращается, когда новое начало не в будущем
	ErrStartInPast = errors.New("reschedule_booking: booking start must be in the future")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
