package notifier

import (
	"context"
	"encoding/json"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/common/mq"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/domain"
)

// Run consumes lifecycle events from the broker and prints them as
// human-readable notifications until ctx is done.
func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	broker, err := mq.Dial(cfg.RabbitMQ.URL())
	if err != nil {
		return err
	}
	defer broker.Close()
	if err := broker.DeclareTopology(); err != nil {
		return err
	}
	lg.Info("mq_connected", map[string]any{"host": cfg.RabbitMQ.Host})

	deliveries, err := broker.Consume(cfg.Service+"-notifier", 10)
	if err != nil {
		return err
	}
	lg.Info("notifier_started", nil)

	for {
		select {
		case <-ctx.Done():
			lg.Info("notifier_stopped", nil)
			return nil
		case d, ok := <-deliveries:
			if !ok {
				lg.Error("delivery_channel_closed", nil, nil)
				return nil
			}
			handle(lg, d.RoutingKey, d.Body)
			_ = d.Ack(false)
		}
	}
}

func handle(lg *logger.Logger, key string, body []byte) {
	switch key {
	case domain.EventOrderPlaced:
		var ev domain.OrderPlacedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			lg.Error("decode_event", err, map[string]any{"routing_key": key})
			return
		}
		lg.Info("order_placed", map[string]any{
			"order_id":     ev.OrderID,
			"table_number": ev.TableNumber,
			"total":        ev.Total,
		})
	case domain.EventOrderAdvanced:
		var ev domain.OrderStatusEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			lg.Error("decode_event", err, map[string]any{"routing_key": key})
			return
		}
		lg.Info("order_status_changed", map[string]any{
			"order_id":   ev.OrderID,
			"old_status": ev.OldStatus,
			"new_status": ev.NewStatus,
		})
	case domain.EventOfferAccepted, domain.EventOfferRejected:
		var ev domain.OfferReviewedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			lg.Error("decode_event", err, map[string]any{"routing_key": key})
			return
		}
		lg.Info("offer_reviewed", map[string]any{
			"offer_id": ev.OfferID,
			"author":   ev.Author,
			"status":   ev.Status,
		})
	default:
		lg.Debug("unknown_event", map[string]any{"routing_key": key, "body": string(body)})
	}
}
