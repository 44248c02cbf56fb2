// internal/adapters/in/http/store/handler/order_handler.go
package storeHandler

import (
	"net/http"
	"strings"

	"tienda/internal/adapters/in/http/middleware"
	usecase "tienda/internal/application/usecase"
)

// OrderHandler serves the signed-in user's order history.
//
//   - GET /store/orders        list (query: limit)
//   - GET /store/orders/{id}   single order, ownership-checked
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	if id := orderIDFromPath(path); id != "" {
		ord, err := h.uc.Get(r.Context(), uid, id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderView(ord))
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
	orders, err := h.uc.List(r.Context(), uid, limit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	views := []orderView{}
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": views})
}

func orderIDFromPath(path string) string {
	const marker = "/orders/"
	i := strings.LastIndex(path, marker)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(path[i+len(marker):])
}
