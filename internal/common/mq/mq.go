package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// EventsExchange receives every lifecycle notification, keyed by
	// event name (order.placed, offer.accepted, ...).
	EventsExchange = "pos.events"

	// NotificationsQueue is bound to the whole exchange for the notifier
	// process.
	NotificationsQueue = "pos.notifications.q"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // serializes Publish while waiting for confirms
}

func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// DeclareTopology declares the events exchange and the notifications queue.
// Declarations are idempotent.
func (c *Client) DeclareTopology() error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("nil channel")
	}
	if err := c.ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(NotificationsQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(NotificationsQueue, "#", EventsExchange, false, nil)
}

// Publish marshals payload to JSON, publishes it persistently under key and
// waits for the broker confirm.
func (c *Client) Publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ch.PublishWithContext(ctx, EventsExchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}); err != nil {
		return err
	}

	select {
	case conf := <-c.acks:
		if conf.Ack {
			return nil
		}
		return fmt.Errorf("publish NACK from broker for %s", key)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume subscribes to the notifications queue with manual acks.
func (c *Client) Consume(consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(NotificationsQueue, consumer, false, false, false, false, nil)
}
