package app

import (
	"context"

	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	order "github.com/dwikikusuma/bookverse/internal/order/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
)

// SessionRepo runs fn with exclusive access to one session.
type SessionRepo interface {
	With(ctx context.Context, id string, fn func(*session.Session) error) error
}

type CartReader interface {
	GetCart(ctx context.Context, sessionID string) ([]cart.Line, error)
}

// Listing is the live catalog view of one item.
type Listing struct {
	Item   catalog.Item
	Listed bool
}

type CatalogReader interface {
	Lookup(ctx context.Context, catalogID string) (Listing, error)
}

type OrderRecorder interface {
	Record(ctx context.Context, username string, items []order.OrderItemRequest) (order.Order, error)
}
