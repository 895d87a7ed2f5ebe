package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const EventsExchange = "storefront.events"

// CatalogRoutingKey is the topic a catalog change is published under.
func CatalogRoutingKey(kind ChangeKind) string {
	return "catalog.product." + string(kind) + ".v1"
}

type catalogEnvelope struct {
	EventType string `json:"eventType"`
	CatalogChange
}

// AMQPPublisher publishes catalog changes to a topic exchange.
type AMQPPublisher struct {
	conn *amqp.Connection
	mu   sync.Mutex // amqp channels are not safe for concurrent publishing
	ch   *amqp.Channel
}

func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) PublishCatalogChange(ctx context.Context, c CatalogChange) error {
	body, err := json.Marshal(catalogEnvelope{EventType: "CatalogProduct" + titleKind(c.Kind), CatalogChange: c})
	if err != nil {
		return fmt.Errorf("marshal catalog change: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		CatalogRoutingKey(c.Kind),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    c.Timestamp,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func titleKind(k ChangeKind) string {
	if k == "" {
		return ""
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}
