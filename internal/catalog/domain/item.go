package domain

import (
	"fmt"
	"math"
	"strings"
)

const DefaultCurrency = "USD"

// MaxAmount is the largest representable price in cents.
const MaxAmount = math.MaxInt64

// Money is an amount in minor units (cents).
type Money struct {
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

func USD(cents int64) Money {
	return Money{Currency: DefaultCurrency, Amount: cents}
}

// FromDecimal converts a decimal price such as 18.99 into minor units.
// Negative and non-finite values collapse to zero; values too large for
// int64 cents saturate at MaxAmount.
func FromDecimal(v float64) Money {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return USD(0)
	}
	cents := math.Round(v * 100)
	if cents >= MaxAmount {
		return USD(MaxAmount)
	}
	return USD(int64(cents))
}

// Decimal is the inverse of FromDecimal, for upstreams that speak in units.
func (m Money) Decimal() float64 {
	return float64(m.Amount) / 100
}

func (m Money) Add(o Money) Money {
	cur := m.Currency
	if cur == "" {
		cur = o.Currency
	}
	return Money{Currency: cur, Amount: m.Amount + o.Amount}
}

func (m Money) Times(n int) Money {
	return Money{Currency: m.Currency, Amount: m.Amount * int64(n)}
}

func (m Money) String() string {
	sign := ""
	amt := m.Amount
	if amt < 0 {
		sign = "-"
		amt = -amt
	}
	return fmt.Sprintf("%s$%d.%02d", sign, amt/100, amt%100)
}

// Item is one sellable book. Items are immutable once fetched.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Price       Money  `json:"price"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// Normalize trims text fields and clamps the price so that partially filled
// records from upstream are usable instead of rejected.
func (it Item) Normalize() Item {
	it.ID = strings.TrimSpace(it.ID)
	it.Title = strings.TrimSpace(it.Title)
	it.Author = strings.TrimSpace(it.Author)
	it.Genre = strings.TrimSpace(it.Genre)
	it.ImageURL = strings.TrimSpace(it.ImageURL)
	if it.Price.Amount < 0 {
		it.Price.Amount = 0
	}
	if it.Price.Currency == "" {
		it.Price.Currency = DefaultCurrency
	}
	return it
}

// Matches reports whether q occurs in the title, author or genre, ignoring case.
func (it Item) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Author), q) ||
		strings.Contains(strings.ToLower(it.Genre), q)
}
