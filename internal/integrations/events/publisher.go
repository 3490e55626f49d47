package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrConnect ошибка подключения к брокеру
	ErrConnect = errors.New("events: failed to connect to broker")

	// ErrPublish ошибка публикации события
	ErrPublish = errors.New("events: failed to publish event")
)

// channel подмножество *amqp.Channel, которое использует Publisher
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в topic exchange RabbitMQ
// Сообщения persistent, exchange durable
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	timeout  time.Duration
	logger   Logger
}

// NewPublisher подключается к брокеру и объявляет exchange
func NewPublisher(url, exchange string, timeout time.Duration, logger Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	p, err := newPublisher(ch, exchange, timeout, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newPublisher(ch channel, exchange string, timeout time.Duration, logger Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	return &Publisher{
		ch:       ch,
		exchange: exchange,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Publish публикует событие, routing key = тип события
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	// amqp.Channel не потокобезопасен для публикаций
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, msg); err != nil {
		p.logger.Error("Publish: failed to publish %s for reservation=%s: %v", event.Type, event.ReservationID, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.logger.Info("Publish: %s for reservation=%s", event.Type, event.ReservationID)
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if connErr := p.conn.Close(); connErr != nil && err == nil {
			err = connErr
		}
	}
	return err
}

// NoopPublisher используется, когда брокер не настроен
type NoopPublisher struct{}

// Publish ничего не делает
func (NoopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

// Close ничего не делает
func (NoopPublisher) Close() error {
	return nil
}
