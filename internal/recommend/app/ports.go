package app

import (
	"context"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	user "github.com/dwikikusuma/bookverse/internal/user/domain"
)

type UserReader interface {
	Get(ctx context.Context, username string) (user.User, bool, error)
}

type CatalogSnapshot interface {
	Snapshot() []catalog.Item
	Fallback() []catalog.Item
}
