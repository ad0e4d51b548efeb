package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultSearchDays             = 30
	DefaultSearchLimit            = 5
	MaxSearchLimit                = 50
)

// Business validation constants
const (
	MaxNotesLength         = 500
	MaxClientNameLength    = 200
	MaxBlockReasonLength   = 255
	MaxServicesPerBooking  = 20
	MaxResourcesPerBooking = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы бронирований, которые занимают время ресурса
// Только они участвуют в проверке пересечений и в расчёте слотов
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// AllStatuses все известные статусы бронирования
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusAttended,
	StatusNoShow,
}
