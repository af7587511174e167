package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	catalog "github.com/dwikikusuma/bookverse/internal/catalog/domain"
	userapp "github.com/dwikikusuma/bookverse/internal/user/app"
	user "github.com/dwikikusuma/bookverse/internal/user/domain"
)

// profile is the public view of a user record.
type profile struct {
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	Preferences user.Preferences `json:"preferences"`
	CreatedAt   time.Time        `json:"created_at"`
}

func toProfile(u user.User) profile {
	return profile{Username: u.Username, Email: u.Email, Preferences: u.Preferences, CreatedAt: u.CreatedAt}
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.Users.Register(r.Context(), userapp.RegisterInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProfile(u))
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": h.Sessions.Create()})
}

func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Delete(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.Users.Authenticate(r.Context(), in.Username, in.Password)
	if errors.Is(err, userapp.ErrNotFound) {
		// Do not reveal which usernames exist.
		err = userapp.ErrWrongPassword
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Sessions.Login(r.Context(), sid, u.Username); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(u))
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context(), chi.URLParam(r, "sid")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// currentUser returns the username bound to the request's session, failing
// with errLoginRequired for anonymous sessions.
func (h *handler) currentUser(ctx context.Context, r *http.Request) (string, error) {
	name, err := h.Sessions.Username(ctx, chi.URLParam(r, "sid"))
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", errLoginRequired
	}
	return name, nil
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r.Context(), r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	u, ok, err := h.Users.Get(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		h.writeError(w, r, userapp.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(u))
}

func (h *handler) orders(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r.Context(), r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	history, err := h.Orders.History(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": history})
}

func (h *handler) wishlist(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r.Context(), r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entries, err := h.Users.Wishlist(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []user.WishlistEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

type itemRef struct {
	CatalogID string `json:"catalog_id"`
}

func (h *handler) addToWishlist(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r.Context(), r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in itemRef
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	var it catalog.Item
	if it, err = h.Catalog.GetItem(r.Context(), in.CatalogID); err != nil {
		h.writeError(w, r, err)
		return
	}

	added, err := h.Users.AddToWishlist(r.Context(), name, it)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"added": added})
}

func (h *handler) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r.Context(), r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Users.RemoveFromWishlist(r.Context(), name, chi.URLParam(r, "catalogID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) setPreferences(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r.Context(), r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var prefs user.Preferences
	if err := decodeJSON(w, r, &prefs); err != nil {
		h.writeError(w, r, err)
		return
	}
	saved, err := h.Users.SetPreferences(r.Context(), name, prefs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
