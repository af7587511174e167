package domain

import (
	"errors"

	"github.com/google/uuid"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Line is one distinct catalog item in the cart. CatalogID is a plain
// reference; the price is the one seen when the item was first added.
type Line struct {
	LineID    string        `json:"line_id"`
	CatalogID string        `json:"catalog_id"`
	Title     string        `json:"title"`
	Author    string        `json:"author"`
	Genre     string        `json:"genre"`
	Price     catalog.Money `json:"price"`
	Quantity  int           `json:"quantity"`
}

func (l Line) Subtotal() catalog.Money {
	return l.Price.Times(l.Quantity)
}

// Ledger holds the lines of one session's cart. It is not safe for
// concurrent use; the owning session serializes access.
type Ledger struct {
	lines []Line
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add puts one unit of item in the cart and returns the line's new quantity.
// Repeat adds of the same catalog id bump the existing line.
func (l *Ledger) Add(item catalog.Item) int {
	for i := range l.lines {
		if l.lines[i].CatalogID == item.ID {
			l.lines[i].Quantity++
			return l.lines[i].Quantity
		}
	}

	l.lines = append(l.lines, Line{
		LineID:    uuid.NewString(),
		CatalogID: item.ID,
		Title:     item.Title,
		Author:    item.Author,
		Genre:     item.Genre,
		Price:     item.Price,
		Quantity:  1,
	})
	return 1
}

func (l *Ledger) SetQuantity(index, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if index < 0 || index >= len(l.lines) {
		return ErrLineNotFound
	}
	l.lines[index].Quantity = qty
	return nil
}

func (l *Ledger) Remove(index int) error {
	if index < 0 || index >= len(l.lines) {
		return ErrLineNotFound
	}
	l.lines = append(l.lines[:index], l.lines[index+1:]...)
	return nil
}

func (l *Ledger) Clear() {
	l.lines = nil
}

// Total is recomputed from the lines on every call.
func (l *Ledger) Total() catalog.Money {
	total := catalog.USD(0)
	for _, ln := range l.lines {
		total = total.Add(ln.Subtotal())
	}
	return total
}

// Lines returns a copy of the current lines.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Ledger) Len() int {
	return len(l.lines)
}

// Count is the number of units across all lines.
func (l *Ledger) Count() int {
	n := 0
	for _, ln := range l.lines {
		n += ln.Quantity
	}
	return n
}
