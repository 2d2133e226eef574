package port

import "context"

// EventListenerPort - входящий канал событий (например, из RabbitMQ)
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
