package app

import (
	"context"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
)

type SessionRepo interface {
	With(ctx context.Context, id string, fn func(sess *session.Session) error) error
}

type CatalogReader interface {
	GetItem(ctx context.Context, id string) (catalog.Item, error)
}
