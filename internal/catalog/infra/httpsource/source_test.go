package httpsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/bookverse/internal/catalog/app"
	"github.com/dwikikusuma/bookverse/pkg/breaker"
	"github.com/dwikikusuma/bookverse/pkg/logger"
)

func newSource(url string) *Source {
	return New(Options{
		URL:     url,
		Timeout: time.Second,
		Breaker: breaker.Config{Failures: 2, OpenTimeout: time.Minute},
	}, logger.Discard())
}

func TestFetchCatalogDefaultsMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "bk-1", "title": "Dune", "author": "Frank Herbert", "genre": "Science Fiction", "price": 22.5},
			{"id": 7, "title": "No Price"},
			{"title": "No Id", "author": "Someone", "price": -3},
			{"id": "bk-1", "title": "Duplicate"}
		]`))
	}))
	defer srv.Close()

	items, err := newSource(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "bk-1", items[0].ID)
	assert.Equal(t, int64(2250), items[0].Price.Amount)

	assert.Equal(t, "7", items[1].ID)
	assert.Equal(t, int64(0), items[1].Price.Amount)
	assert.Equal(t, "", items[1].Genre)

	assert.NotEmpty(t, items[2].ID)
	assert.Equal(t, derivedID("No Id", "Someone"), items[2].ID)
	assert.Equal(t, int64(0), items[2].Price.Amount)
}

func TestFetchCatalogToleratesMalformedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": "1", "title": "Dune", "author": "Frank Herbert", "price": 22.5},
			{"id": "2", "title": "Emma", "author": "Jane Austen", "price": "12.99"},
			{"id": "3", "title": 1984, "genre": ["Fiction"], "price": "cheap"},
			{"id": {"nested": true}, "title": "Odd Id", "author": "Anon", "price": null},
			"not a book",
			null
		]`))
	}))
	defer srv.Close()

	items, err := newSource(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, int64(2250), items[0].Price.Amount)

	assert.Equal(t, "2", items[1].ID)
	assert.Equal(t, int64(1299), items[1].Price.Amount)

	assert.Equal(t, "3", items[2].ID)
	assert.Equal(t, "", items[2].Title)
	assert.Equal(t, "", items[2].Genre)
	assert.Equal(t, int64(0), items[2].Price.Amount)

	assert.Equal(t, derivedID("Odd Id", "Anon"), items[3].ID)
	assert.Equal(t, int64(0), items[3].Price.Amount)
}

func TestFetchCatalogUpstreamFailure(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := newSource(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := src.FetchCatalog(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, app.ErrUpstreamUnavailable))
	}
	assert.Equal(t, 2, hits, "breaker should stop calling the upstream once open")
}

func TestDerivedIDStable(t *testing.T) {
	assert.Equal(t, derivedID("Dune", "Frank Herbert"), derivedID(" dune ", "FRANK HERBERT"))
	assert.NotEqual(t, derivedID("Dune", "Frank Herbert"), derivedID("Dune", "Someone Else"))
}
