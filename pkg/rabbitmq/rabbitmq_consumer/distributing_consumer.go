package rabbitmq_consumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Omkar-XD/Realty-Match-System/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPermanent помечает ошибку, повтор которой не поможет (битое сообщение).
// Такие сообщения отбрасываются без возврата в очередь.
var ErrPermanent = errors.New("permanent message error")

// MessageHandler обрабатывает одно сообщение.
// Решение об ack/nack принимает пакет по возвращенной ошибке.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// Consumer - общий контракт потребителей пакета
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}

// DistributingConsumer запускает обработчик в отдельной горутине на каждое сообщение.
// Параллелизм ограничен PrefetchCount.
type DistributingConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
}

func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing Consumer: message handler is required")
	}

	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing Consumer: %w", err)
	}

	return &DistributingConsumer{
		baseConsumer: bc,
		handler:      handler,
	}, nil
}

// settlement - что сделать с сообщением после обработчика
type settlement int

const (
	settleAck settlement = iota
	settleRequeue
	settleDrop
)

// settle: успех подтверждается; временная ошибка возвращается в очередь один раз;
// повторная доставка или ErrPermanent отбрасываются, чтобы не зациклить "ядовитое" сообщение.
func settle(err error, redelivered bool) settlement {
	switch {
	case err == nil:
		return settleAck
	case errors.Is(err, ErrPermanent), redelivered:
		return settleDrop
	default:
		return settleRequeue
	}
}

// StartConsuming блокируется до отмены ctx или закрытия соединения брокером
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	bc := c.baseConsumer
	if bc.channel == nil || bc.connection == nil || bc.connection.IsClosed() {
		return fmt.Errorf("distributing Consumer: not connected")
	}

	msgs, err := bc.channel.Consume(
		bc.actualQueueName,
		bc.config.ConsumerTag,
		false, // auto-ack
		bc.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("distributing Consumer %s: failed to register a consumer on queue '%s': %w", bc.config.ConsumerTag, bc.actualQueueName, err)
	}

	bc.Logger.Info("[*] Waiting for messages on queue", "queue_name", bc.actualQueueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				bc.Logger.Info("Context cancelled, exiting consumption loop", "consumer_tag", bc.config.ConsumerTag)
				return
			case d, ok := <-msgs:
				if !ok {
					bc.Logger.Info("Deliveries channel closed by RabbitMQ, exiting loop", "consumer_tag", bc.config.ConsumerTag)
					return
				}

				bc.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer bc.wg.Done()
					c.process(ctx, delivery)
				}(d)
			}
		}
	}()

	notifyClose := bc.connection.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-ctx.Done():
		bc.Logger.Info("Context cancelled. Shutting down consumer", "consumer_tag", bc.config.ConsumerTag)
		return nil
	case amqpErr := <-notifyClose:
		if amqpErr == nil {
			return nil
		}
		bc.Logger.Error(amqpErr, "Connection closed for consumer", "consumer_tag", bc.config.ConsumerTag)
		return amqpErr
	}
}

func (c *DistributingConsumer) process(ctx context.Context, delivery amqp.Delivery) {
	bc := c.baseConsumer

	processErr := c.handler(ctx, delivery)

	switch settle(processErr, delivery.Redelivered) {
	case settleAck:
		_ = delivery.Ack(false)
		bc.Logger.Debug("[+] Message Ack'd", "delivery_tag", delivery.DeliveryTag)
	case settleRequeue:
		bc.Logger.Error(processErr, "Handler failed, requeueing message", "delivery_tag", delivery.DeliveryTag)
		_ = delivery.Nack(false, true)
	case settleDrop:
		bc.Logger.Error(processErr, "Handler failed, dropping message",
			"delivery_tag", delivery.DeliveryTag,
			"redelivered", delivery.Redelivered)
		_ = delivery.Nack(false, false)
	}
}

func (c *DistributingConsumer) Close() error {
	c.baseConsumer.Logger.Info("Closing consumer")
	return c.baseConsumer.Close()
}
