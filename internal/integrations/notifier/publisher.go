package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 100
)

// Publisher переносит события из outbox в Kafka
// Выборка, отправка и отметка о публикации идут в одной транзакции:
// при сбое брокера события остаются неопубликованными и уйдут на следующем тике
type Publisher struct {
	repo         OutboxRepository
	writer       MessageWriter
	txManager    TransactionManager
	pollInterval time.Duration
	batchSize    int
	metrics      *metrics.Metrics
	logger       Logger
}

// NewKafkaWriter создает продюсера для топика событий бронирований
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// NewPublisher создает новый экземпляр публикатора
func NewPublisher(
	repo OutboxRepository,
	writer MessageWriter,
	txManager TransactionManager,
	cfg Config,
	m *metrics.Metrics,
	logger Logger,
) *Publisher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Publisher{
		repo:         repo,
		writer:       writer,
		txManager:    txManager,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		metrics:      m,
		logger:       logger,
	}
}

// Run публикует события до отмены контекста, затем закрывает продюсера
func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("Notifier: started, poll interval=%s, batch size=%d", p.pollInterval, p.batchSize)

	defer func() {
		if err := p.writer.Close(); err != nil {
			p.logger.Error("Notifier: failed to close kafka writer: %v", err)
		}
		p.logger.Info("Notifier: stopped")
	}()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.PublishBatch(ctx); err != nil {
				p.logger.Error("Notifier: publish failed: %v", err)
			}
		}
	}
}

// PublishBatch публикует одну пачку событий и возвращает их количество
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	published := 0

	err := p.txManager.Do(ctx, func(txCtx context.Context) error {
		events, err := p.repo.FetchUnpublished(txCtx, p.batchSize)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFetchEvents, err)
		}
		if len(events) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, len(events))
		ids := make([]string, len(events))
		for i, e := range events {
			msgs[i] = toMessage(e)
			ids[i] = e.ID
		}

		if err := p.writer.WriteMessages(txCtx, msgs...); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteMessages, err)
		}

		if err := p.repo.MarkPublished(txCtx, ids); err != nil {
			return fmt.Errorf("%w: %w", ErrMarkPublished, err)
		}

		for _, e := range events {
			p.metrics.IncOutboxPublished(e.EventType)
		}
		published = len(events)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if published > 0 {
		p.logger.Info("Notifier: published %d events", published)
	}
	return published, nil
}
