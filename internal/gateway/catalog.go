package gateway

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, r, errBadRequest)
			return
		}
		limit = n
	}

	items, err := h.Catalog.ListItems(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"degraded": h.Catalog.Degraded(),
	})
}

func (h *handler) getCatalogItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.Catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *handler) refreshCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Refresh(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(items),
		"degraded": h.Catalog.Degraded(),
	})
}
