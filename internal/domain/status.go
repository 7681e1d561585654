package domain

// OfferStatus is the review state of a MenuOffer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// accepted and rejected are terminal: nothing leads out of them.
var offerNext = map[OfferStatus]map[OfferStatus]bool{
	OfferPending:  {OfferAccepted: true, OfferRejected: true},
	OfferAccepted: {},
	OfferRejected: {},
}

func (s OfferStatus) CanTransition(to OfferStatus) bool { return offerNext[s][to] }

func (s OfferStatus) Valid() bool {
	_, ok := offerNext[s]
	return ok
}

// Terminal reports whether the review is settled.
func (s OfferStatus) Terminal() bool { return s == OfferAccepted || s == OfferRejected }

// OrderStatus is the kitchen state of an Order. The only path is
// ordered -> cooking -> ready; there is no cancellation state.
type OrderStatus string

const (
	OrderOrdered OrderStatus = "ordered"
	OrderCooking OrderStatus = "cooking"
	OrderReady   OrderStatus = "ready"
)

var orderNext = map[OrderStatus]map[OrderStatus]bool{
	OrderOrdered: {OrderCooking: true},
	OrderCooking: {OrderReady: true},
	OrderReady:   {},
}

func (s OrderStatus) CanTransition(to OrderStatus) bool { return orderNext[s][to] }

func (s OrderStatus) Valid() bool {
	_, ok := orderNext[s]
	return ok
}

// TableStatus is the seating state of a Table. Any state can be set from
// any other; freeing a table with an active order is refused at the
// service layer, not here.
type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableBooked   TableStatus = "booked"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableOccupied, TableBooked:
		return true
	}
	return false
}
