// internal/adapters/in/http/store/handler/helper_handler.go
package storeHandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tienda/internal/adapters/in/http/middleware"
	query "tienda/internal/application/query"
	usecase "tienda/internal/application/usecase"
	cartdom "tienda/internal/domain/cart"
	orderdom "tienda/internal/domain/order"
	productdom "tienda/internal/domain/product"
	stockdom "tienda/internal/domain/stock"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(msg)})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
}

func readJSON(r *http.Request, dst any) error {
	if dst == nil {
		return errors.New("dst is nil")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)) // 1MB
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func toRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// maskUID keeps Firebase UIDs out of the logs.
func maskUID(uid string) string {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return ""
	}
	if len(uid) <= 6 {
		return "***"
	}
	return "***" + uid[len(uid)-6:]
}

// ============================================================
// Owner resolution
// ============================================================

// resolveOwner maps the request to a cart owner: a verified Firebase UID
// wins; otherwise the guest cart id header identifies the session.
func resolveOwner(r *http.Request) (cartdom.Owner, error) {
	if uid, ok := middleware.CurrentUID(r); ok {
		return cartdom.UserOwner(uid)
	}
	if gid, ok := middleware.GuestCartID(r); ok {
		return cartdom.GuestOwner(gid)
	}
	return cartdom.Owner{}, errors.New("missing bearer token or " + middleware.GuestCartHeader + " header")
}

// ============================================================
// Response DTOs
// ============================================================

type cartItemView struct {
	ProductID string `json:"productId"`
	SizeKey   string `json:"sizeKey"`
	Size      string `json:"size"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type cartView struct {
	OwnerID    string                  `json:"ownerId"`
	Items      map[string]cartItemView `json:"items"`
	TotalItems int                     `json:"totalItems"`
	TotalPrice string                  `json:"totalPrice"`
	UpdatedAt  string                  `json:"updatedAt,omitempty"`
}

func toCartView(owner cartdom.Owner, c *cartdom.Cart) cartView {
	view := cartView{
		OwnerID:    owner.ID,
		Items:      map[string]cartItemView{},
		TotalPrice: "0.00",
	}
	if c == nil {
		return view
	}
	for key, it := range c.Items {
		view.Items[key] = cartItemView{
			ProductID: it.ProductID,
			SizeKey:   it.SizeKey,
			Size:      it.Size(),
			Name:      it.Name,
			Price:     it.Price.StringFixed(2),
			Image:     it.Image,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal().StringFixed(2),
		}
	}
	view.TotalItems = c.TotalItems()
	view.TotalPrice = c.TotalPrice().StringFixed(2)
	view.UpdatedAt = toRFC3339(c.UpdatedAt)
	return view
}

type orderView struct {
	ID             string         `json:"id"`
	Number         int            `json:"number"`
	UserID         string         `json:"userId"`
	ShippingMethod string         `json:"shippingMethod,omitempty"`
	PaymentMethod  string         `json:"paymentMethod,omitempty"`
	Items          []cartItemView `json:"items"`
	Total          string         `json:"total"`
	Status         string         `json:"status"`
	Confirmed      bool           `json:"confirmed"`
	CreatedAt      string         `json:"createdAt"`
}

func toOrderView(o orderdom.Order) orderView {
	view := orderView{
		ID:             o.ID,
		Number:         o.Number,
		UserID:         o.Buyer.UserID,
		ShippingMethod: o.ShippingMethod,
		PaymentMethod:  o.PaymentMethod,
		Items:          []cartItemView{},
		Total:          o.Total.StringFixed(2),
		Status:         o.Status,
		Confirmed:      o.Confirmed,
		CreatedAt:      toRFC3339(o.CreatedAt),
	}
	for _, it := range o.Items {
		view.Items = append(view.Items, cartItemView{
			ProductID: it.ProductID,
			SizeKey:   it.SizeKey,
			Size:      it.Size(),
			Name:      it.Name,
			Price:     it.Price.StringFixed(2),
			Image:     it.Image,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal().StringFixed(2),
		})
	}
	return view
}

// ============================================================
// Error mapping
// ============================================================

// writeDomainErr maps domain and usecase errors to HTTP statuses. Stock
// failures return 409 with the available count so the client can adjust.
func writeDomainErr(w http.ResponseWriter, err error) {
	if err == nil {
		writeErr(w, http.StatusInternalServerError, "unknown error")
		return
	}

	var (
		insufficient *stockdom.InsufficientError
		changed      *stockdom.ChangedError
		noProduct    *stockdom.ProductNotFoundError
		invalidItem  *cartdom.InvalidItemError
		conflict     *orderdom.ConflictError
	)

	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "insufficient_stock",
			"sizeKey":   insufficient.SizeKey,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.As(err, &changed):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "stock_changed",
			"sizeKey":   changed.SizeKey,
			"requested": changed.Requested,
			"available": changed.Available,
		})
	case errors.As(err, &noProduct):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalidItem):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflict):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrCheckoutUserRequired):
		writeErr(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrOrderForbidden):
		writeErr(w, http.StatusForbidden, err.Error())
	case errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, productdom.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, usecase.ErrOrderInvalidArgument),
		errors.Is(err, usecase.ErrMigrationInvalidArgument),
		errors.Is(err, query.ErrCatalogInvalidArgument),
		errors.Is(err, orderdom.ErrEmptyCart),
		errors.Is(err, cartdom.ErrInvalidCart):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}
