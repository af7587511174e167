package httpsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dwikikusuma/bookverse/internal/catalog/app"
	"github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/pkg/breaker"
)

const maxBody = 4 << 20

type Source struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[]domain.Item]
}

type Options struct {
	URL     string
	Timeout time.Duration
	Breaker breaker.Config
	Client  *http.Client
}

func New(opts Options, log *slog.Logger) *Source {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	bc := opts.Breaker
	if bc.Name == "" {
		bc.Name = "catalog"
	}
	return &Source{
		url:    opts.URL,
		client: client,
		cb:     breaker.New[[]domain.Item](bc, log),
	}
}

// WireItem is the upstream record shape, also used by other upstreams that
// return books. Every field is optional and a field of the wrong type is
// read as missing.
type WireItem struct {
	ID          flexID    `json:"id"`
	Title       flexText  `json:"title"`
	Author      flexText  `json:"author"`
	Genre       flexText  `json:"genre"`
	Price       flexPrice `json:"price"`
	ImageURL    flexText  `json:"image_url"`
	Description flexText  `json:"description"`
}

func (s *Source) FetchCatalog(ctx context.Context) ([]domain.Item, error) {
	items, err := s.cb.Execute(func() ([]domain.Item, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app.ErrUpstreamUnavailable, err)
	}
	return items, nil
}

func (s *Source) fetch(ctx context.Context) ([]domain.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return DecodeItems(raw), nil
}

// DecodeItems decodes each record on its own. Records that are not JSON
// objects, null included, are skipped; the rest go through ToDomain.
func DecodeItems(raw []json.RawMessage) []domain.Item {
	wire := make([]WireItem, 0, len(raw))
	for _, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			continue
		}
		var w WireItem
		if err := json.Unmarshal(r, &w); err != nil {
			continue
		}
		wire = append(wire, w)
	}
	return ToDomain(wire)
}

// flexID accepts ids sent either as strings or as bare numbers. Other
// values are read as missing.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*f = ""
			return nil
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		*f = ""
		return nil
	}
	*f = flexID(n)
	return nil
}

// flexText keeps string values and reads anything else as empty.
type flexText string

func (f *flexText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*f = ""
		return nil
	}
	*f = flexText(s)
	return nil
}

// flexPrice accepts a number or a numeric string. Anything else, null
// included, is read as no price.
type flexPrice struct {
	value float64
	set   bool
}

func (f *flexPrice) UnmarshalJSON(b []byte) error {
	*f = flexPrice{}
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flexPrice{value: v, set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*f = flexPrice{value: v, set: true}
	}
	return nil
}

// ToDomain converts and normalizes upstream records, dropping repeated ids.
func ToDomain(raw []WireItem) []domain.Item {
	out := make([]domain.Item, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, w := range raw {
		title, author := string(w.Title), string(w.Author)
		id := strings.TrimSpace(string(w.ID))
		if id == "" {
			id = derivedID(title, author)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		price := domain.USD(0)
		if w.Price.set {
			price = domain.FromDecimal(w.Price.value)
		}

		out = append(out, domain.Item{
			ID:          id,
			Title:       title,
			Author:      author,
			Genre:       string(w.Genre),
			Price:       price,
			ImageURL:    string(w.ImageURL),
			Description: string(w.Description),
		}.Normalize())
	}
	return out
}

// derivedID gives records without an id a stable one, so cart lines and
// wishlist entries keep pointing at the same book across refreshes.
func derivedID(title, author string) string {
	key := strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(author))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
