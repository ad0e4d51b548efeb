package notifier

import "errors"

var (
	// ErrFetchEvents возвращается, если не удалось выбрать события из outbox
	ErrFetchEvents = errors.New("notifier: failed to fetch outbox events")

	// ErrWriteMessages возвращается, если брокер не принял сообщения
	ErrWriteMessages = errors.New("notifier: failed to write messages to kafka")

	// ErrMarkPublished возвращается, если не удалось отметить события опубликованными
	ErrMarkPublished = errors.New("notifier: failed to mark events as published")
)
