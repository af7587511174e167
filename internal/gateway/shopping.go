package gateway

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func lineIndex(r *http.Request) (int, error) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, fmt.Errorf("%w: line index must be a number", errBadRequest)
	}
	return idx, nil
}

func (h *handler) viewCart(w http.ResponseWriter, r *http.Request) {
	v, err := h.Cart.View(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context(), chi.URLParam(r, "sid")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var in itemRef
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.Cart.AddItem(r.Context(), chi.URLParam(r, "sid"), in.CatalogID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	idx, err := lineIndex(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	sid := chi.URLParam(r, "sid")
	if err := h.Cart.SetQuantity(r.Context(), sid, idx, in.Quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.viewCart(w, r)
}

func (h *handler) removeLine(w http.ResponseWriter, r *http.Request) {
	idx, err := lineIndex(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Cart.RemoveLine(r.Context(), chi.URLParam(r, "sid"), idx); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.viewCart(w, r)
}

func (h *handler) quote(w http.ResponseWriter, r *http.Request) {
	q, err := h.Checkout.Quote(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	o, err := h.Checkout.Checkout(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *handler) recommendations(w http.ResponseWriter, r *http.Request) {
	name, err := h.Sessions.Username(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	scored, err := h.Recommend.Ranked(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"personalized": name != "",
		"items":        scored,
	})
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	reply, err := h.Assistant.Ask(r.Context(), chi.URLParam(r, "sid"), in.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *handler) transcript(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Assistant.Transcript(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}
