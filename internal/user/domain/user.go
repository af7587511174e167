package domain

import (
	"strings"
	"time"

	assistant "github.com/dwikikusuma/bookverse/internal/assistant/domain"
	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	order "github.com/dwikikusuma/bookverse/internal/order/domain"
)

// User is the persisted record for one registered shopper. The record owns
// its wishlist, order history and chat transcript outright.
type User struct {
	Username       string              `json:"username"`
	Email          string              `json:"email"`
	PasswordHash   string              `json:"password_hash"`
	Preferences    Preferences         `json:"preferences"`
	Wishlist       []WishlistEntry     `json:"wishlist"`
	OrderHistory   []order.Order       `json:"order_history"`
	ChatTranscript []assistant.Message `json:"chat_transcript"`
	CreatedAt      time.Time           `json:"created_at"`
}

type Preferences struct {
	FavoriteGenres []string   `json:"favorite_genres"`
	PriceRange     PriceRange `json:"price_range"`
	Notifications  bool       `json:"notifications"`
}

// PriceRange bounds are in minor units; zero Max means unbounded.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type WishlistEntry struct {
	CatalogID string        `json:"catalog_id"`
	Title     string        `json:"title"`
	Author    string        `json:"author"`
	Price     catalog.Money `json:"price"`
	ImageURL  string        `json:"image_url"`
	Genre     string        `json:"genre"`
	AddedAt   time.Time     `json:"added_at"`
}

// NormalizeGenres trims and de-duplicates genres, keeping first occurrence order.
func NormalizeGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

func (u *User) HasWishlisted(catalogID string) bool {
	for _, e := range u.Wishlist {
		if e.CatalogID == catalogID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record.
func (u User) Clone() User {
	u.Preferences.FavoriteGenres = append([]string(nil), u.Preferences.FavoriteGenres...)
	u.Wishlist = append([]WishlistEntry(nil), u.Wishlist...)

	if u.OrderHistory != nil {
		hist := make([]order.Order, len(u.OrderHistory))
		for i, o := range u.OrderHistory {
			hist[i] = o.Clone()
		}
		u.OrderHistory = hist
	}

	if u.ChatTranscript != nil {
		msgs := make([]assistant.Message, len(u.ChatTranscript))
		for i, m := range u.ChatTranscript {
			m.Items = append([]catalog.Item(nil), m.Items...)
			msgs[i] = m
		}
		u.ChatTranscript = msgs
	}
	return u
}
