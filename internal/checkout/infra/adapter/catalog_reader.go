package adapter

import (
	"context"
	"errors"

	catalogapp "github.com/dwikikusuma/bookverse/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/bookverse/internal/checkout/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

// Lookup reports a delisted item as Listed=false rather than an error.
func (r *CatalogServiceReader) Lookup(ctx context.Context, catalogID string) (checkoutapp.Listing, error) {
	it, err := r.svc.GetItem(ctx, catalogID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return checkoutapp.Listing{}, nil
	}
	if err != nil {
		return checkoutapp.Listing{}, err
	}
	return checkoutapp.Listing{Item: it, Listed: true}, nil
}
