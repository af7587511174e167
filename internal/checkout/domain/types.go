package domain

import (
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
)

// QuoteLine compares one cart line with the live catalog. CartPrice is the
// price captured when the item was added; CurrentPrice is zero when the item
// is no longer listed.
type QuoteLine struct {
	Index        int           `json:"index"`
	CatalogID    string        `json:"catalog_id"`
	Title        string        `json:"title"`
	Quantity     int           `json:"quantity"`
	CartPrice    catalog.Money `json:"cart_price"`
	CurrentPrice catalog.Money `json:"current_price"`
	Listed       bool          `json:"listed"`
	LineTotal    catalog.Money `json:"line_total"`
}

func (l QuoteLine) PriceChanged() bool {
	return l.Listed && l.CurrentPrice != l.CartPrice
}

// Quote is a preview of checkout. Total is what checkout will charge, which
// is always the cart's own total.
type Quote struct {
	Lines        []QuoteLine   `json:"lines"`
	Total        catalog.Money `json:"total"`
	CurrentTotal catalog.Money `json:"current_total"`
	Stale        bool          `json:"stale"`
}
