package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/modules/orders/repository"
)

type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// PlaceOrderRequest is a cart submitted by a waiter. Items are stored as
// given: a frozen snapshot, never re-fetched from the menu.
type PlaceOrderRequest struct {
	TableNumber int                `json:"tableNumber"`
	Items       []domain.OrderItem `json:"items"`
}

// OrderService runs the order lifecycle: placement and the strict
// ordered -> cooking -> ready progression.
type OrderService struct {
	orders repository.Orders
	pub    Publisher
	lg     *logger.Logger
}

func NewOrderService(orders repository.Orders, pub Publisher, lg *logger.Logger) *OrderService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &OrderService{orders: orders, pub: pub, lg: lg}
}

func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest, waiterID string, actor domain.Role) (domain.Order, error) {
	if !domain.Allowed(actor, domain.ActionPlaceOrder) {
		return domain.Order{}, domain.Unauthorizedf("role %s cannot place orders", actor)
	}
	if req.TableNumber <= 0 {
		return domain.Order{}, domain.Validationf("table number must be positive")
	}
	if len(req.Items) == 0 {
		return domain.Order{}, domain.Validationf("order must contain at least one item")
	}
	for _, it := range req.Items {
		if it.Name == "" {
			return domain.Order{}, domain.Validationf("item name is required")
		}
		if it.Quantity < 1 {
			return domain.Order{}, domain.Validationf("invalid quantity for item %s", it.Name)
		}
		if it.Price < 0 {
			return domain.Order{}, domain.Validationf("invalid price for item %s", it.Name)
		}
	}

	o := domain.Order{
		ID:          uuid.NewString(),
		TableNumber: req.TableNumber,
		Items:       req.Items,
		WaiterID:    waiterID,
		Status:      domain.OrderOrdered,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.orders.PlaceTx(ctx, o); err != nil {
		return domain.Order{}, err
	}

	s.lg.Info("order_placed", map[string]any{
		"order_id": o.ID, "table": o.TableNumber, "total": o.Total(),
	})
	s.notify(ctx, domain.EventOrderPlaced, domain.OrderPlacedEvent{
		OrderID:     o.ID,
		TableNumber: o.TableNumber,
		WaiterID:    o.WaiterID,
		Total:       o.Total(),
		Timestamp:   time.Now().UTC(),
	})
	return o, nil
}

// Advance moves an order along ordered -> cooking -> ready. Only cooks may
// call it; any other target status or any skipped stage is refused.
func (s *OrderService) Advance(ctx context.Context, orderID string, to domain.OrderStatus, actorID string, actor domain.Role) (domain.Order, error) {
	if !domain.Allowed(actor, domain.ActionAdvanceOrder) {
		return domain.Order{}, domain.Unauthorizedf("role %s cannot advance orders", actor)
	}
	if !to.Valid() {
		return domain.Order{}, domain.Validationf("unknown order status %q", to)
	}

	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !current.Status.CanTransition(to) {
		return domain.Order{}, domain.InvalidTransitionf("cannot move order from %s to %s", current.Status, to)
	}

	// The repository re-checks under a row lock; this call is the one
	// that counts when two cooks race.
	o, err := s.orders.AdvanceTx(ctx, orderID, to)
	if err != nil {
		return domain.Order{}, err
	}

	s.lg.Info("order_status_changed", map[string]any{
		"order_id": o.ID, "old_status": current.Status, "new_status": o.Status, "changed_by": actorID,
	})
	s.notify(ctx, domain.EventOrderAdvanced, domain.OrderStatusEvent{
		OrderID:     o.ID,
		TableNumber: o.TableNumber,
		OldStatus:   current.Status,
		NewStatus:   o.Status,
		ChangedBy:   actorID,
		Timestamp:   time.Now().UTC(),
	})
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// ActiveForTable returns the most recent order for the table that is not
// yet ready.
func (s *OrderService) ActiveForTable(ctx context.Context, tableNumber int) (domain.Order, error) {
	if tableNumber <= 0 {
		return domain.Order{}, domain.Validationf("table number must be positive")
	}
	return s.orders.ActiveForTable(ctx, tableNumber)
}

func (s *OrderService) Delete(ctx context.Context, id string, actor domain.Role) error {
	if !domain.Allowed(actor, domain.ActionDeleteOrder) {
		return domain.Unauthorizedf("role %s cannot delete orders", actor)
	}
	return s.orders.Delete(ctx, id)
}

func (s *OrderService) notify(ctx context.Context, key string, payload any) {
	if err := s.pub.Publish(ctx, key, payload); err != nil {
		s.lg.Error("event_publish_failed", err, map[string]any{"event": key})
	}
}
