package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/order/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPersistence  = errors.New("order could not be saved")
)

// Recorder turns a set of cart lines into an immutable order and appends it
// to the owner's history.
type Recorder struct {
	repo OrderRepo
	now  func() time.Time
}

func NewRecorder(repo OrderRepo) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, username string, items []domain.OrderItemRequest) (domain.Order, error) {
	if strings.TrimSpace(username) == "" {
		return domain.Order{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	total := catalog.USD(0)

	for i, item := range items {
		if item.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: item %d: quantity must be positive, got %d", ErrInvalidInput, i, item.Quantity)
		}
		if item.UnitPrice.Amount < 0 {
			return domain.Order{}, fmt.Errorf("%w: item %d: unit price cannot be negative, got %d", ErrInvalidInput, i, item.UnitPrice.Amount)
		}

		lineTotal := item.UnitPrice.Times(item.Quantity)
		orderItems = append(orderItems, domain.OrderItem{
			CatalogID: item.CatalogID,
			Title:     item.Title,
			Author:    item.Author,
			Genre:     item.Genre,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	now := r.now().UTC()
	order := domain.Order{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Items:     orderItems,
		Total:     total,
		CreatedAt: now,
	}

	if err := r.repo.AppendOrder(ctx, username, order.Clone()); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return order, nil
}

func (r *Recorder) History(ctx context.Context, username string) ([]domain.Order, error) {
	return r.repo.History(ctx, username)
}
