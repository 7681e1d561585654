package domain

import "time"

// Routing keys for lifecycle notifications published to the events exchange.
const (
	EventOrderPlaced   = "order.placed"
	EventOrderAdvanced = "order.status_changed"
	EventOfferAccepted = "offer.accepted"
	EventOfferRejected = "offer.rejected"
)

type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	TableNumber int       `json:"table_number"`
	WaiterID    string    `json:"waiter_id"`
	Total       float64   `json:"total"`
	Timestamp   time.Time `json:"timestamp"`
}

type OrderStatusEvent struct {
	OrderID     string      `json:"order_id"`
	TableNumber int         `json:"table_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
	ChangedBy   string      `json:"changed_by"`
	Timestamp   time.Time   `json:"timestamp"`
}

type OfferReviewedEvent struct {
	OfferID   string      `json:"offer_id"`
	Name      string      `json:"name"`
	Author    string      `json:"author"`
	Status    OfferStatus `json:"status"`
	DishID    string      `json:"dish_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
