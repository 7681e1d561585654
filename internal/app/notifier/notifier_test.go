package notifier

import (
	"encoding/json"
	"testing"
	"time"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
)

func payload(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestHandleDecodesEveryEventKind(t *testing.T) {
	lg := logger.New("test")
	now := time.Now().UTC()

	tests := []struct {
		name string
		key  string
		body []byte
	}{
		{"order placed", domain.EventOrderPlaced, payload(t, domain.OrderPlacedEvent{
			OrderID: "o1", TableNumber: 4, WaiterID: "w1", Total: 280, Timestamp: now,
		})},
		{"order advanced", domain.EventOrderAdvanced, payload(t, domain.OrderStatusEvent{
			OrderID: "o1", TableNumber: 4, OldStatus: domain.OrderOrdered,
			NewStatus: domain.OrderCooking, ChangedBy: "c1", Timestamp: now,
		})},
		{"offer accepted", domain.EventOfferAccepted, payload(t, domain.OfferReviewedEvent{
			OfferID: "of1", Name: "Borsch", Author: "olena",
			Status: domain.OfferAccepted, DishID: "d1", Timestamp: now,
		})},
		{"offer rejected", domain.EventOfferRejected, payload(t, domain.OfferReviewedEvent{
			OfferID: "of2", Name: "Syrniki", Author: "olena",
			Status: domain.OfferRejected, Timestamp: now,
		})},
		{"unknown key", "order.unknown", []byte(`{}`)},
		{"malformed body", domain.EventOrderPlaced, []byte(`{not json`)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handle(lg, tc.key, tc.body)
		})
	}
}
