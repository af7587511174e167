// Package gateway is the storefront's HTTP API.
package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assistantapp "github.com/dwikikusuma/bookverse/internal/assistant/app"
	cartapp "github.com/dwikikusuma/bookverse/internal/cart/app"
	catalogapp "github.com/dwikikusuma/bookverse/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/bookverse/internal/checkout/app"
	orderapp "github.com/dwikikusuma/bookverse/internal/order/app"
	recommendapp "github.com/dwikikusuma/bookverse/internal/recommend/app"
	"github.com/dwikikusuma/bookverse/internal/session"
	userapp "github.com/dwikikusuma/bookverse/internal/user/app"
)

type RateLimit struct {
	Requests int
	Window   time.Duration
}

type Options struct {
	CORSOrigins []string
	AuthLimit   RateLimit
	APILimit    RateLimit
}

func DefaultOptions() Options {
	return Options{
		CORSOrigins: []string{"*"},
		AuthLimit:   RateLimit{Requests: 10, Window: time.Minute},
		APILimit:    RateLimit{Requests: 300, Window: time.Minute},
	}
}

type Deps struct {
	Catalog   *catalogapp.Service
	Users     *userapp.Service
	Sessions  *session.Store
	Cart      *cartapp.Service
	Checkout  *checkoutapp.Service
	Orders    *orderapp.Recorder
	Recommend *recommendapp.Service
	Assistant *assistantapp.Service
}

type handler struct {
	Deps
	log *slog.Logger
}

func NewRouter(d Deps, opts Options, log *slog.Logger) http.Handler {
	h := &handler{Deps: d, log: log.With("component", "gateway")}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(opts.CORSOrigins))
	r.Use(observe)

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(opts.APILimit))

		r.Get("/catalog", h.listCatalog)
		r.Post("/catalog/refresh", h.refreshCatalog)
		r.Get("/catalog/{id}", h.getCatalogItem)

		r.With(rateLimit(opts.AuthLimit)).Post("/users", h.register)
		r.Post("/sessions", h.createSession)

		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Delete("/", h.deleteSession)
			r.With(rateLimit(opts.AuthLimit)).Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/me", h.me)

			r.Get("/cart", h.viewCart)
			r.Delete("/cart", h.clearCart)
			r.Post("/cart/items", h.addToCart)
			r.Put("/cart/lines/{index}", h.setQuantity)
			r.Delete("/cart/lines/{index}", h.removeLine)

			r.Get("/checkout/quote", h.quote)
			r.Post("/checkout", h.checkout)
			r.Get("/orders", h.orders)

			r.Get("/wishlist", h.wishlist)
			r.Post("/wishlist", h.addToWishlist)
			r.Delete("/wishlist/{catalogID}", h.removeFromWishlist)
			r.Put("/preferences", h.setPreferences)

			r.Get("/recommendations", h.recommendations)

			r.Get("/chat", h.transcript)
			r.Post("/chat", h.chat)
		})
	})

	return r
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// readyz reports ready once a catalog, live or built-in, is being served.
func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if len(h.Catalog.Snapshot()) == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
