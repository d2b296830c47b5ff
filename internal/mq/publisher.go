package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// UsageRecordedEvent is published after a sample is stored
type UsageRecordedEvent struct {
	SampleID      string  `json:"sample_id"`
	UserID        string  `json:"user_id"`
	DeviceID      string  `json:"device_id,omitempty"`
	Usage         float64 `json:"usage"`
	Timestamp     string  `json:"timestamp"`
	Source        string  `json:"source"`
	AnomalyReason string  `json:"anomaly_reason,omitempty"`
	RequestID     string  `json:"request_id,omitempty"`
}

// Publisher publishes usage events to a topic exchange
type Publisher struct {
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *zap.Logger
}

// NewPublisher declares the events exchange and returns a publisher bound to it
func NewPublisher(conn *Connection, exchange, routingKey string, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := declareTopicExchange(ch, exchange); err != nil {
		ch.Close()
		return nil, err
	}

	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

// PublishUsageRecorded publishes a persistent usage.recorded event
func (p *Publisher) PublishUsageRecorded(ctx context.Context, event UsageRecordedEvent) error {
	if err := p.PublishJSON(ctx, event.SampleID, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published usage event",
		zap.String("routing_key", p.routingKey),
		zap.String("user_id", event.UserID),
		zap.String("sample_id", event.SampleID),
	)

	return nil
}

// PublishJSON publishes v as a persistent JSON message on the bound exchange
func (p *Publisher) PublishJSON(ctx context.Context, messageID string, v any) error {
	msg, err := jsonPublishing(messageID, v)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
}

func jsonPublishing(messageID string, v any) (amqp.Publishing, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
	}, nil
}

// Close closes the publisher channel
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}

// NopPublisher drops events; used when no broker is configured
type NopPublisher struct{}

// PublishUsageRecorded does nothing
func (NopPublisher) PublishUsageRecorded(context.Context, UsageRecordedEvent) error {
	return nil
}

func declareTopicExchange(ch *amqp.Channel, exchange string) error {
	err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}
