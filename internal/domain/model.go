package domain

import "time"

// Dish is a sellable menu item. It is created either directly by an admin
// or by promoting an accepted MenuOffer.
type Dish struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url,omitempty"`
	Weight      string  `json:"weight,omitempty"`
	IsNew       bool    `json:"is_new"`
	Available   bool    `json:"available"`
}

// MenuOffer is a proposed menu item awaiting admin review. Once accepted or
// rejected its status never changes again.
type MenuOffer struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Currency    string      `json:"currency"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	ImageURL    string      `json:"image_url,omitempty"`
	Weight      string      `json:"weight,omitempty"`
	IsNew       bool        `json:"is_new"`
	Available   bool        `json:"available"`
	Author      string      `json:"author"`
	Status      OfferStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Dish builds the dish a promoted offer turns into. The id is assigned by
// the caller; display fields are copied as they are at acceptance time.
func (o MenuOffer) Dish(id string) Dish {
	return Dish{
		ID:          id,
		Name:        o.Name,
		Price:       o.Price,
		Currency:    o.Currency,
		Description: o.Description,
		Category:    o.Category,
		ImageURL:    o.ImageURL,
		Weight:      o.Weight,
		IsNew:       o.IsNew,
		Available:   o.Available,
	}
}

// Staff is a restaurant employee. Role is fixed at creation.
type Staff struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// Table is a seating resource identified by its unique number.
type Table struct {
	ID     string      `json:"id"`
	Number int         `json:"number"`
	Seats  int         `json:"seats"`
	Status TableStatus `json:"status"`
}

// OrderItem is a frozen snapshot of a dish at ordering time. Name and price
// are copied, not referenced, so later dish edits never rewrite history.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID          string      `json:"id"`
	TableNumber int         `json:"tableNumber"`
	Items       []OrderItem `json:"items"`
	WaiterID    string      `json:"waiterId"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Total is the sum of price*quantity over all items.
func (o Order) Total() float64 {
	var t float64
	for _, it := range o.Items {
		t += it.Price * float64(it.Quantity)
	}
	return t
}

// Active reports whether the order still needs kitchen or waiter attention.
func (o Order) Active() bool { return o.Status != OrderReady }

// DefaultCurrency is applied when a dish or offer omits one.
const DefaultCurrency = "UAH"
