package notifier

import (
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Заголовки сообщений для сервиса уведомлений
const (
	HeaderEventID    = "event_id"
	HeaderEventType  = "event_type"
	HeaderTenantSlug = "tenant_slug"
)

// Config параметры публикатора
type Config struct {
	PollInterval time.Duration
	BatchSize    int
}

// toMessage строит сообщение Kafka из события outbox
// Ключ tenant:booking сохраняет порядок событий одного бронирования в партиции
func toMessage(e domain.OutboxEvent) kafka.Message {
	return kafka.Message{
		Key:   []byte(e.TenantSlug + ":" + strconv.FormatInt(e.AggregateID, 10)),
		Value: e.Payload,
		Time:  e.CreatedAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(e.ID)},
			{Key: HeaderEventType, Value: []byte(e.EventType)},
			{Key: HeaderTenantSlug, Value: []byte(e.TenantSlug)},
		},
	}
}
