package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"example.com/storefront/internal/config"
)

// EventOrderPlaced is emitted after an order is persisted.
const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is the payload of EventOrderPlaced.
type OrderPlacedEvent struct {
	Type        string          `json:"type"`
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Source      string          `json:"source"`
	Phone       string          `json:"phone"`
	Total       decimal.Decimal `json:"total"`
	Items       []Item          `json:"items"`
	PlacedAt    time.Time       `json:"placed_at"`
}

func newOrderPlacedEvent(o Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		Type:        EventOrderPlaced,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Source:      o.Source,
		Phone:       o.Phone,
		Total:       o.Total,
		Items:       o.Items,
		PlacedAt:    o.CreatedAt,
	}
}

// Publisher delivers order events to a broker.
type Publisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
	Close() error
}

// NewPublisher builds the publisher selected by the events backend.
func NewPublisher(cfg *config.Config, logger *slog.Logger) (Publisher, error) {
	switch cfg.EventsBackend {
	case config.EventsKafka:
		logger.Info("order events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.EventsAMQP:
		p, err := NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, err
		}
		logger.Info("order events to rabbitmq", "exchange", cfg.AMQPExchange)
		return p, nil
	default:
		return NewLogPublisher(logger), nil
	}
}

// KafkaPublisher writes JSON events to one Kafka topic.
type KafkaPublisher struct {
	writer *kafkaGo.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkaGo.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishEvent(ctx context.Context, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafkaGo.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// AMQPPublisher publishes persistent JSON messages to a direct exchange,
// routed by event type.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) PublishEvent(ctx context.Context, key string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, EventOrderPlaced, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		ContentType:  "application/json",
		MessageId:    key,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.exchange, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// LogPublisher only logs events. It backs the "none" events backend.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "orders.events")}
}

func (p *LogPublisher) PublishEvent(_ context.Context, key string, event any) error {
	p.logger.Info("order event", "key", key, "event", event)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
