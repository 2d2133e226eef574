package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Omkar-XD/Realty-Match-System/internal/constants"
	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/contracts"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port/usecases_port"
	"github.com/Omkar-XD/Realty-Match-System/pkg/rabbitmq/rabbitmq_common"
	"github.com/Omkar-XD/Realty-Match-System/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PropertyListedConsumerAdapter слушает события о новых объектах
// и запускает для каждого обратный подбор запросов.
type PropertyListedConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.FindMatchesForPropertyUseCase
	logger   port.LoggerPort
}

func NewPropertyListedConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.FindMatchesForPropertyUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*PropertyListedConsumerAdapter, error) {
	adapter := &PropertyListedConsumerAdapter{
		useCase: useCase,
		logger:  logger.WithFields(port.Fields{"component": "PropertyListedConsumerAdapter"}),
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.handleMessage, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for listed properties: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

func (a *PropertyListedConsumerAdapter) handleMessage(ctx context.Context, d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"delivery_tag": d.DeliveryTag,
	})

	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	if err := contracts.Validate(schemaKey(d.Headers), d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, nil)
		return fmt.Errorf("%w: %v", rabbitmq_consumer.ErrPermanent, err)
	}

	var event PropertyListedEventDTO
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return fmt.Errorf("%w: failed to unmarshal property listed event: %v", rabbitmq_consumer.ErrPermanent, err)
	}

	result, err := a.useCase.Execute(ctx, event.PropertyID, domain.MatchOptions{})
	if err != nil {
		if domain.IsNotFound(err) {
			msgLogger.Warn("Listed property not found in catalog, dropping event", port.Fields{"property_id": event.PropertyID.String()})
			return fmt.Errorf("%w: %v", rabbitmq_consumer.ErrPermanent, err)
		}
		return err
	}

	msgLogger.Info("Property listed event processed", port.Fields{
		"property_id": event.PropertyID.String(),
		"matches":     len(result.Matches),
	})
	return nil
}

// schemaKey берет тип и версию события из заголовков, по умолчанию PropertyListedEvent/1.0.0
func schemaKey(headers amqp.Table) string {
	eventType, _ := headers[constants.HeaderEventType].(string)
	eventVersion, _ := headers[constants.HeaderEventVersion].(string)
	if eventType == "" || eventVersion == "" {
		return contracts.PropertyListedEventV1
	}
	return fmt.Sprintf("%s/%s", eventType, eventVersion)
}

// Start реализует EventListenerPort
func (a *PropertyListedConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *PropertyListedConsumerAdapter) Close() error {
	return a.consumer.Close()
}
