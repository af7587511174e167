package app

import (
	"context"

	"github.com/dwikikusuma/bookverse/internal/catalog/domain"
)

// Supplier fetches the full catalog. An empty result is treated the same as
// an outage.
type Supplier interface {
	FetchCatalog(ctx context.Context) ([]domain.Item, error)
}
