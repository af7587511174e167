package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/bookverse/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/bookverse/internal/checkout/app"
	orderapp "github.com/dwikikusuma/bookverse/internal/order/app"
	"github.com/dwikikusuma/bookverse/internal/session"
	userapp "github.com/dwikikusuma/bookverse/internal/user/app"
	"github.com/dwikikusuma/bookverse/pkg/validation"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation -> 400", fmt.Errorf("%w: %w", userapp.ErrInvalidInput, validation.Errors{{Field: "email", Tag: "email"}}), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"InvalidQuantity -> 400", cart.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"WrongPassword -> 401", userapp.ErrWrongPassword, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"NotLoggedIn -> 401", checkoutapp.ErrNotLoggedIn, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"user NotFound -> 404", userapp.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"session NotFound -> 404", session.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"line NotFound -> 404", cart.ErrLineNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"DuplicateUsername -> 409", userapp.ErrDuplicateUsername, http.StatusConflict, "ALREADY_EXISTS"},
		{"DuplicateEmail -> 409", userapp.ErrDuplicateEmail, http.StatusConflict, "ALREADY_EXISTS"},
		{"EmptyCart -> 409", checkoutapp.ErrEmptyCart, http.StatusConflict, "FAILED_PRECONDITION"},
		{"Unavailable -> 503", fmt.Errorf("%w: timeout", catalogapp.ErrUpstreamUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"DeadlineExceeded -> 503", context.DeadlineExceeded, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"Persistence -> 500", fmt.Errorf("%w: %w", orderapp.ErrPersistence, errors.New("disk")), http.StatusInternalServerError, "INTERNAL"},
		{"unknown -> 500", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStatus, gotCode, msg := httpStatusFromError(tt.err)
			if gotStatus != tt.wantStatus || gotCode != tt.wantCode {
				t.Fatalf("got (%d,%s)", gotStatus, gotCode)
			}
			if msg == "" {
				t.Fatal("message must not be empty")
			}
		})
	}

	t.Run("storage details are not leaked", func(t *testing.T) {
		_, _, msg := httpStatusFromError(fmt.Errorf("%w: %w", userapp.ErrPersistence, errors.New("/var/lib/badger: no space")))
		if msg != "could not save your changes, please retry" {
			t.Fatalf("got %q", msg)
		}
	})
}
