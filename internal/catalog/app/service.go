package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/pkg/metrics"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("catalog upstream unavailable")
)

type Service struct {
	supplier Supplier
	fallback []domain.Item
	log      *slog.Logger

	mu       sync.RWMutex
	items    []domain.Item
	byID     map[string]int
	degraded bool
}

// NewService starts out serving fallback until the first Refresh. supplier
// may be nil, in which case Refresh always installs fallback.
func NewService(supplier Supplier, fallback []domain.Item, log *slog.Logger) *Service {
	s := &Service{
		supplier: supplier,
		fallback: clone(fallback),
		log:      log.With("component", "catalog"),
	}
	s.install(s.fallback, true)
	return s
}

// Refresh replaces the whole catalog with a fresh fetch. Upstream failures
// are not returned: the built-in catalog is installed instead.
func (s *Service) Refresh(ctx context.Context) ([]domain.Item, error) {
	if s.supplier == nil {
		s.install(s.fallback, true)
		return s.Snapshot(), nil
	}

	items, err := s.supplier.FetchCatalog(ctx)
	if err == nil && len(items) == 0 {
		err = ErrUpstreamUnavailable
	}
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues("catalog").Inc()
		s.log.Warn("catalog fetch failed, serving built-in catalog", slog.Any("err", err))
		s.install(s.fallback, true)
		return s.Snapshot(), nil
	}

	s.install(items, false)
	snap := s.Snapshot()
	if len(snap) == 0 {
		s.log.Warn("catalog fetch returned no usable items, serving built-in catalog")
		s.install(s.fallback, true)
		return s.Snapshot(), nil
	}

	s.log.Info("catalog refreshed", slog.Int("items", len(snap)))
	return snap, nil
}

func (s *Service) install(items []domain.Item, degraded bool) {
	out := make([]domain.Item, 0, len(items))
	byID := make(map[string]int, len(items))
	for _, it := range items {
		it = it.Normalize()
		if it.ID == "" {
			continue
		}
		if _, dup := byID[it.ID]; dup {
			continue
		}
		byID[it.ID] = len(out)
		out = append(out, it)
	}

	s.mu.Lock()
	s.items = out
	s.byID = byID
	s.degraded = degraded
	s.mu.Unlock()
}

// Snapshot returns a copy of the current catalog in catalog order.
func (s *Service) Snapshot() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Degraded reports whether the built-in catalog is being served.
func (s *Service) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

func (s *Service) Fallback() []domain.Item {
	return clone(s.fallback)
}

func (s *Service) GetItem(ctx context.Context, id string) (domain.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Item{}, ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return domain.Item{}, ErrNotFound
	}
	return s.items[idx], nil
}

func (s *Service) ListItems(ctx context.Context, query string, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Item, 0, min(limit, len(s.items)))
	for _, it := range s.items {
		if len(out) == limit {
			break
		}
		if it.Matches(query) {
			out = append(out, it)
		}
	}
	return out, nil
}

func clone(items []domain.Item) []domain.Item {
	out := make([]domain.Item, len(items))
	copy(out, items)
	return out
}
