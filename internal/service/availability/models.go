package availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Config параметры расчёта слотов
type Config struct {
	GranularityMinutes int // Шаг сетки слотов, должен делить 1440
	SearchDays         int // Горизонт поиска ближайшей доступности
	DefaultSearchLimit int // Лимит по умолчанию для FindNext
	MaxSearchLimit     int // Верхняя граница лимита FindNext
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		GranularityMinutes: domain.DefaultSlotGranularityMinutes,
		SearchDays:         domain.DefaultSearchDays,
		DefaultSearchLimit: domain.DefaultSearchLimit,
		MaxSearchLimit:     domain.MaxSearchLimit,
	}
}

// ComputeSlotsRequest запрос сетки слотов ресурса на дату
type ComputeSlotsRequest struct {
	ResourceID int64
	Date       string // YYYY-MM-DD в часовом поясе локации
	ServiceIDs []int64
}

// DaySlots сетка слотов ресурса на день
type DaySlots struct {
	ResourceID      int64
	LocationID      int64
	Date            time.Time // Полночь дня в часовом поясе локации
	Timezone        string
	DurationMinutes int // Суммарная длительность запрошенных услуг
	Slots           []domain.Slot
}

// ValidateRequest кандидат бронирования для проверки конфликтов
type ValidateRequest struct {
	LocationID       int64
	ServiceIDs       []int64
	ResourceIDs      []int64
	Start            time.Time
	ExcludeBookingID *int64 // При переносе существующего бронирования
}

// FindNextRequest запрос ближайших свободных слотов в локации
type FindNextRequest struct {
	ServiceIDs []int64
	LocationID int64
	Limit      int
}

// NextSlot найденный свободный слот
type NextSlot struct {
	ResourceID   int64
	ResourceName string
	Start        time.Time
	End          time.Time
}
