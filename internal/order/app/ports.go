package app

import (
	"context"

	"github.com/dwikikusuma/bookverse/internal/order/domain"
)

type OrderRepo interface {
	// AppendOrder adds o to the end of the user's order history.
	AppendOrder(ctx context.Context, username string, o domain.Order) error
	History(ctx context.Context, username string) ([]domain.Order, error)
}
