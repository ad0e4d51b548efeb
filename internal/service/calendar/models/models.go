package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// ScheduleEntryRequest запись недельного расписания
// endTime раньше startTime означает окно через полночь (22:00-02:00)
type ScheduleEntryRequest struct {
	Weekday   int    `json:"weekday"`   // 0 = понедельник ... 6 = воскресенье
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "17:00"
}

// ReplaceScheduleRequest полная замена расписания ресурса
type ReplaceScheduleRequest struct {
	Entries []ScheduleEntryRequest `json:"entries"`
}

// ToDomainEntries конвертирует записи в domain модели без валидации
func (r *ReplaceScheduleRequest) ToDomainEntries(resourceID int64) []domain.ScheduleEntry {
	entries := make([]domain.ScheduleEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = domain.ScheduleEntry{
			ResourceID: resourceID,
			Weekday:    e.Weekday,
			StartTime:  types.TimeString(e.StartTime),
			EndTime:    types.TimeString(e.EndTime),
		}
	}
	return entries
}

// CreateBlockRequest запрос на создание блокировки
type CreateBlockRequest struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  string    `json:"reason"`
}

// ListBlocksRequest запрос блокировок ресурса, пересекающих период
type ListBlocksRequest struct {
	From *time.Time // По умолчанию текущий момент
	To   *time.Time // По умолчанию From + горизонт поиска
}

// Response модели

// ScheduleEntryResponse запись расписания
type ScheduleEntryResponse struct {
	ID              int64  `json:"id"`
	Weekday         int    `json:"weekday"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	CrossesMidnight bool   `json:"crossesMidnight"`
}

// ScheduleResponse расписание ресурса
type ScheduleResponse struct {
	ResourceID int64                   `json:"resourceId"`
	Entries    []ScheduleEntryResponse `json:"entries"`
}

// BlockResponse блокировка
type BlockResponse struct {
	ID         int64     `json:"id"`
	ResourceID int64     `json:"resourceId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BlockListResponse список блокировок
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// Методы конвертации

// FromDomainSchedule конвертирует записи расписания в DTO
func FromDomainSchedule(resourceID int64, entries []domain.ScheduleEntry) *ScheduleResponse {
	resp := &ScheduleResponse{
		ResourceID: resourceID,
		Entries:    make([]ScheduleEntryResponse, len(entries)),
	}
	for i := range entries {
		resp.Entries[i] = ScheduleEntryResponse{
			ID:              entries[i].ID,
			Weekday:         entries[i].Weekday,
			StartTime:       entries[i].StartTime.String(),
			EndTime:         entries[i].EndTime.String(),
			CrossesMidnight: entries[i].CrossesMidnight(),
		}
	}
	return resp
}

// FromDomainBlock конвертирует блокировку в DTO
func FromDomainBlock(b *domain.Block) *BlockResponse {
	if b == nil {
		return nil
	}
	return &BlockResponse{
		ID:         b.ID,
		ResourceID: b.ResourceID,
		StartAt:    b.StartAt,
		EndAt:      b.EndAt,
		Reason:     b.Reason,
		CreatedAt:  b.CreatedAt,
	}
}

// FromDomainBlockList конвертирует список блокировок в DTO
func FromDomainBlockList(blocks []domain.Block) *BlockListResponse {
	resp := &BlockListResponse{Blocks: make([]BlockResponse, len(blocks))}
	for i := range blocks {
		resp.Blocks[i] = *FromDomainBlock(&blocks[i])
	}
	return resp
}
