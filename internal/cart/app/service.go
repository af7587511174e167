package app

import (
	"context"
	"fmt"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/cart/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
)

type Service struct {
	sessions SessionRepo
	catalog  CatalogReader
}

func NewService(sessions SessionRepo, catalog CatalogReader) *Service {
	return &Service{
		sessions: sessions,
		catalog:  catalog,
	}
}

type AddResult struct {
	Quantity int    `json:"quantity"`
	Message  string `json:"message"`
}

// View is a consistent read of the cart: lines and totals taken together.
type View struct {
	Lines []domain.Line `json:"lines"`
	Total catalog.Money `json:"total"`
	Count int           `json:"count"`
}

func (s *Service) AddItem(ctx context.Context, sessionID, catalogID string) (AddResult, error) {
	item, err := s.catalog.GetItem(ctx, catalogID)
	if err != nil {
		return AddResult{}, err
	}

	var res AddResult
	err = s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		res.Quantity = sess.Cart.Add(item)
		return nil
	})
	if err != nil {
		return AddResult{}, err
	}

	res.Message = fmt.Sprintf("Added %s to cart!", item.Title)
	return res, nil
}

func (s *Service) SetQuantity(ctx context.Context, sessionID string, index, qty int) error {
	return s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		return sess.Cart.SetQuantity(index, qty)
	})
}

func (s *Service) RemoveLine(ctx context.Context, sessionID string, index int) error {
	return s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		return sess.Cart.Remove(index)
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		sess.Cart.Clear()
		return nil
	})
}

func (s *Service) View(ctx context.Context, sessionID string) (View, error) {
	var v View
	err := s.sessions.With(ctx, sessionID, func(sess *session.Session) error {
		v = View{
			Lines: sess.Cart.Lines(),
			Total: sess.Cart.Total(),
			Count: sess.Cart.Count(),
		}
		return nil
	})
	return v, err
}
