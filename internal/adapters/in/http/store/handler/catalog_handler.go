// internal/adapters/in/http/store/handler/catalog_handler.go
package storeHandler

import (
	"net/http"
	"strings"

	query "tienda/internal/application/query"
)

// CatalogHandler serves the public product read model.
//
//   - GET /store/catalog        list (query: limit)
//   - GET /store/catalog/{id}   single product with per-size availability
type CatalogHandler struct {
	q *query.CatalogQuery
}

func NewCatalogHandler(q *query.CatalogQuery) http.Handler {
	return &CatalogHandler{q: q}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if h.q == nil {
		writeErr(w, http.StatusInternalServerError, "catalog handler is not configured")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	if id := catalogIDFromPath(path); id != "" {
		v, err := h.q.GetProduct(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
	views, err := h.q.ListProducts(r.Context(), limit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if views == nil {
		views = []query.ProductView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": views})
}

func catalogIDFromPath(path string) string {
	const marker = "/catalog/"
	i := strings.LastIndex(path, marker)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(path[i+len(marker):])
}
