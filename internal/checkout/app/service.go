package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/checkout/domain"
	order "github.com/dwikikusuma/bookverse/internal/order/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
	"github.com/dwikikusuma/bookverse/pkg/metrics"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrNotLoggedIn = errors.New("login required to check out")
)

type Service struct {
	sessions SessionRepo
	cart     CartReader
	catalog  CatalogReader
	orders   OrderRecorder
	log      *slog.Logger

	maxConcurrent int
}

func NewService(sessions SessionRepo, cart CartReader, catalog CatalogReader, orders OrderRecorder, maxConcurrent int, log *slog.Logger) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		sessions:      sessions,
		cart:          cart,
		catalog:       catalog,
		orders:        orders,
		log:           log.With("component", "checkout"),
		maxConcurrent: maxConcurrent,
	}
}

// Checkout turns the session's cart into an order for the logged-in user.
// The cart is cleared only once the order is stored; on any failure it is
// left exactly as it was. The session stays locked for the whole call, so
// no cart change can slip in between recording and clearing.
func (s *Service) Checkout(ctx context.Context, sessionID string) (order.Order, error) {
	var placed order.Order
	err := s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		if !sess.LoggedIn() {
			return ErrNotLoggedIn
		}
		if sess.Cart.Len() == 0 {
			return ErrEmptyCart
		}

		o, err := s.orders.Record(ctx, sess.Username, toRequests(sess.Cart.Lines()))
		if err != nil {
			return err
		}

		sess.Cart.Clear()
		placed = o
		return nil
	})

	switch {
	case err == nil:
		metrics.Checkouts.WithLabelValues("ok").Inc()
		s.log.Info("order placed", slog.String("order_id", placed.ID), slog.Int("items", len(placed.Items)))
		return placed, nil
	case errors.Is(err, ErrEmptyCart):
		metrics.Checkouts.WithLabelValues("empty").Inc()
	default:
		metrics.Checkouts.WithLabelValues("failed").Inc()
		if !errors.Is(err, ErrNotLoggedIn) && !errors.Is(err, session.ErrNotFound) {
			s.log.Error("checkout failed, cart kept", slog.String("session_id", sessionID), slog.Any("err", err))
		}
	}
	return order.Order{}, err
}

// Quote re-checks every cart line against the live catalog. It reads only;
// the cart is not modified.
func (s *Service) Quote(ctx context.Context, sessionID string) (domain.Quote, error) {
	items, err := s.cart.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]
			listing, err := s.catalog.Lookup(ctx, it.CatalogID)
			if err != nil {
				return fmt.Errorf("failed to look up %s: %w", it.CatalogID, err)
			}

			line := domain.QuoteLine{
				Index:     idx,
				CatalogID: it.CatalogID,
				Title:     it.Title,
				Quantity:  it.Quantity,
				CartPrice: it.Price,
				Listed:    listing.Listed,
				LineTotal: it.Subtotal(),
			}
			if listing.Listed {
				line.CurrentPrice = listing.Item.Price
			}
			lines[idx] = line
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	q := domain.Quote{
		Lines:        lines,
		Total:        catalog.USD(0),
		CurrentTotal: catalog.USD(0),
	}
	for _, line := range lines {
		q.Total = q.Total.Add(line.LineTotal)
		if line.Listed {
			q.CurrentTotal = q.CurrentTotal.Add(line.CurrentPrice.Times(line.Quantity))
		}
		if !line.Listed || line.PriceChanged() {
			q.Stale = true
		}
	}

	return q, nil
}

func toRequests(lines []cart.Line) []order.OrderItemRequest {
	out := make([]order.OrderItemRequest, len(lines))
	for i, l := range lines {
		out[i] = order.OrderItemRequest{
			CatalogID: l.CatalogID,
			Title:     l.Title,
			Author:    l.Author,
			Genre:     l.Genre,
			UnitPrice: l.Price,
			Quantity:  l.Quantity,
		}
	}
	return out
}
