package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Omkar-XD/Realty-Match-System/internal/constants"
	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/scoring"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// publisher - часть rabbitmq_producer.Publisher, которой пользуется адаптер
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// MatchesNotifierAdapter публикует уведомление matches.found после обратного подбора
type MatchesNotifierAdapter struct {
	producer   publisher
	routingKey string
	now        func() time.Time
}

func NewMatchesNotifierAdapter(producer publisher, routingKey string) (*MatchesNotifierAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		routingKey = constants.RoutingKeyMatchesFound
	}
	return &MatchesNotifierAdapter{
		producer:   producer,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

func (a *MatchesNotifierAdapter) NotifyPropertyMatches(ctx context.Context, matches *domain.PropertyMatches) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "MatchesNotifierAdapter",
		"routing_key": a.routingKey,
		"property_id": matches.Property.ID.String(),
	})

	price := scoring.FormatPrice(int64(math.Round(matches.Property.Price.Midpoint())))
	body, err := json.Marshal(toMatchesFoundDTO(matches, price, a.now()))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal matches notification: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    a.now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    "MatchesFoundEvent",
			constants.HeaderEventVersion: "1.0.0",
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	adapterLogger.Info("Publishing matches notification", port.Fields{"matches": len(matches.Matches)})
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish matches notification", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish matches for property %s: %w", matches.Property.ID, err)
	}

	adapterLogger.Info("Successfully published matches notification", nil)
	return nil
}
