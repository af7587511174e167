package badgerstore

import (
	"context"

	"github.com/dwikikusuma/bookverse/internal/order/domain"
	userdomain "github.com/dwikikusuma/bookverse/internal/user/domain"
	userstore "github.com/dwikikusuma/bookverse/internal/user/infra/badgerstore"
)

// OrderRepo keeps orders inside the owning user record, so appending an
// order is one atomic update of that record.
type OrderRepo struct {
	users *userstore.UserRepo
}

func NewOrderRepo(users *userstore.UserRepo) *OrderRepo {
	return &OrderRepo{users: users}
}

func (r *OrderRepo) AppendOrder(ctx context.Context, username string, o domain.Order) error {
	return r.users.Update(ctx, username, func(u *userdomain.User) error {
		u.OrderHistory = append(u.OrderHistory, o.Clone())
		return nil
	})
}

func (r *OrderRepo) History(ctx context.Context, username string) ([]domain.Order, error) {
	u, err := r.users.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if u.OrderHistory == nil {
		return []domain.Order{}, nil
	}
	return u.OrderHistory, nil
}
