package gateway

import (
	"context"
	"errors"
	"net/http"

	assistantapp "github.com/dwikikusuma/bookverse/internal/assistant/app"
	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/bookverse/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/bookverse/internal/checkout/app"
	orderapp "github.com/dwikikusuma/bookverse/internal/order/app"
	"github.com/dwikikusuma/bookverse/internal/session"
	userapp "github.com/dwikikusuma/bookverse/internal/user/app"
	"github.com/dwikikusuma/bookverse/pkg/validation"
)

var (
	errLoginRequired = errors.New("login required")
	errBadRequest    = errors.New("malformed request")
)

// httpStatusFromError maps a service error to an HTTP status, a stable code
// and the message that is safe to show the client.
func httpStatusFromError(err error) (int, string, string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, "INVALID_ARGUMENT", verrs.Error()

	case errors.Is(err, errBadRequest),
		errors.Is(err, userapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, orderapp.ErrInvalidInput),
		errors.Is(err, assistantapp.ErrInvalidInput),
		errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()

	case errors.Is(err, errLoginRequired),
		errors.Is(err, checkoutapp.ErrNotLoggedIn),
		errors.Is(err, userapp.ErrWrongPassword):
		return http.StatusUnauthorized, "UNAUTHENTICATED", err.Error()

	case errors.Is(err, userapp.ErrNotFound),
		errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, cart.ErrLineNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()

	case errors.Is(err, userapp.ErrDuplicateUsername),
		errors.Is(err, userapp.ErrDuplicateEmail):
		return http.StatusConflict, "ALREADY_EXISTS", err.Error()

	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusConflict, "FAILED_PRECONDITION", err.Error()

	case errors.Is(err, catalogapp.ErrUpstreamUnavailable),
		errors.Is(err, assistantapp.ErrUpstreamUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "UNAVAILABLE", "upstream unavailable"

	case errors.Is(err, orderapp.ErrPersistence),
		errors.Is(err, userapp.ErrPersistence):
		return http.StatusInternalServerError, "INTERNAL", "could not save your changes, please retry"
	}
	return http.StatusInternalServerError, "INTERNAL", "internal error"
}
