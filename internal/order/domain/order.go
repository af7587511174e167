package domain

import (
	"time"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
)

// Order is an immutable record of a completed checkout.
type Order struct {
	ID        string        `json:"id"`
	Items     []OrderItem   `json:"items"`
	Total     catalog.Money `json:"total"`
	CreatedAt time.Time     `json:"created_at"`
}

type OrderItem struct {
	CatalogID string        `json:"catalog_id"`
	Title     string        `json:"title"`
	Author    string        `json:"author"`
	Genre     string        `json:"genre"`
	UnitPrice catalog.Money `json:"unit_price"`
	Quantity  int           `json:"quantity"`
	LineTotal catalog.Money `json:"line_total"`
}

// OrderItemRequest is one cart line handed to the recorder.
type OrderItemRequest struct {
	CatalogID string
	Title     string
	Author    string
	Genre     string
	UnitPrice catalog.Money
	Quantity  int
}

// Clone returns a deep copy, so callers can never reach into stored history.
func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
