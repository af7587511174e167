package app

import (
	"context"
	"log/slog"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/internal/recommend/domain"
	user "github.com/dwikikusuma/bookverse/internal/user/domain"
	"github.com/dwikikusuma/bookverse/pkg/metrics"
)

type Service struct {
	users   UserReader
	catalog CatalogSnapshot
	limit   int
	log     *slog.Logger
}

func NewService(users UserReader, catalog CatalogSnapshot, limit int, log *slog.Logger) *Service {
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	return &Service{
		users:   users,
		catalog: catalog,
		limit:   limit,
		log:     log.With("component", "recommend"),
	}
}

// Ranked scores the current catalog for username. An empty or unknown
// username gets the anonymous list. A failed user lookup also degrades to
// the anonymous list instead of failing the page.
func (s *Service) Ranked(ctx context.Context, username string) ([]domain.Scored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := s.catalog.Snapshot()
	if len(items) == 0 {
		items = s.catalog.Fallback()
	}

	u := s.lookup(ctx, username)
	mode := "personalized"
	if u == nil {
		mode = "anonymous"
	}
	metrics.Recommendations.WithLabelValues(mode).Inc()

	return domain.Rank(u, items, s.limit), nil
}

func (s *Service) Recommend(ctx context.Context, username string) ([]catalog.Item, error) {
	scored, err := s.Ranked(ctx, username)
	if err != nil {
		return nil, err
	}
	return domain.Items(scored), nil
}

func (s *Service) lookup(ctx context.Context, username string) *user.User {
	if username == "" {
		return nil
	}
	u, ok, err := s.users.Get(ctx, username)
	if err != nil {
		s.log.Warn("user lookup failed, serving anonymous recommendations", slog.String("username", username), slog.Any("err", err))
		return nil
	}
	if !ok {
		return nil
	}
	return &u
}
