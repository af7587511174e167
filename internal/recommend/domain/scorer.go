// Package domain ranks the catalog for one shopper with a fixed set of
// rules. It is pure: the same user record and catalog always give the same
// ranking.
package domain

import (
	"cmp"
	"slices"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	user "github.com/dwikikusuma/bookverse/internal/user/domain"
)

const DefaultLimit = 12

const (
	GenreBonus    = 10
	WishlistBonus = 5
	AuthorBonus   = 3
)

type Scored struct {
	Item  catalog.Item `json:"item"`
	Score int          `json:"score"`
}

// Profile is the lookup data derived from one user record.
type Profile struct {
	genres   map[string]struct{}
	authors  map[string]struct{}
	wishlist map[string]struct{}
}

// NewProfile collects preferred genres (favorites plus every genre ever
// ordered), ordered authors and wishlisted ids. Authors count once no matter
// how often they were bought. Empty values are skipped.
func NewProfile(u *user.User) Profile {
	p := Profile{
		genres:   map[string]struct{}{},
		authors:  map[string]struct{}{},
		wishlist: map[string]struct{}{},
	}
	if u == nil {
		return p
	}

	for _, g := range u.Preferences.FavoriteGenres {
		addNonEmpty(p.genres, g)
	}
	for _, o := range u.OrderHistory {
		for _, it := range o.Items {
			addNonEmpty(p.genres, it.Genre)
			addNonEmpty(p.authors, it.Author)
		}
	}
	for _, e := range u.Wishlist {
		addNonEmpty(p.wishlist, e.CatalogID)
	}
	return p
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func (p Profile) Score(it catalog.Item) int {
	score := 0
	if _, ok := p.genres[it.Genre]; ok && it.Genre != "" {
		score += GenreBonus
	}
	if _, ok := p.wishlist[it.ID]; ok && it.ID != "" {
		score += WishlistBonus
	}
	if _, ok := p.authors[it.Author]; ok && it.Author != "" {
		score += AuthorBonus
	}
	return score
}

// Rank returns at most limit items, best first. Equal scores keep catalog
// order. With no user the catalog order is returned unchanged. limit <= 0
// means DefaultLimit.
func Rank(u *user.User, items []catalog.Item, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}

	scored := make([]Scored, len(items))
	if u == nil {
		for i, it := range items {
			scored[i] = Scored{Item: it}
		}
		return scored[:min(limit, len(scored))]
	}

	p := NewProfile(u)
	for i, it := range items {
		scored[i] = Scored{Item: it, Score: p.Score(it)}
	}

	slices.SortStableFunc(scored, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return scored[:min(limit, len(scored))]
}

// Items strips the scores.
func Items(scored []Scored) []catalog.Item {
	out := make([]catalog.Item, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}
