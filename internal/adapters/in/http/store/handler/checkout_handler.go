// internal/adapters/in/http/store/handler/checkout_handler.go
package storeHandler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"tienda/internal/adapters/in/http/middleware"
	usecase "tienda/internal/application/usecase"
	orderdom "tienda/internal/domain/order"
)

// CheckoutHandler serves POST /store/checkout. Checkout is user-only; a
// guest session must migrate its cart first.
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

type checkoutReq struct {
	ShippingMethod string `json:"shippingMethod"`
	PaymentMethod  string `json:"paymentMethod"`
	Name           string `json:"name"`
	Email          string `json:"email"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}

	uid, email, ok := middleware.CurrentUIDAndEmail(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	var req checkoutReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	// Body overrides win over token claims (checkout form contact fields).
	if v := strings.TrimSpace(req.Email); v != "" {
		email = v
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		if v, okName := middleware.CurrentFullName(r); okName {
			name = v
		}
	}

	start := time.Now()
	ord, err := h.uc.Checkout(r.Context(), usecase.CheckoutInput{
		Buyer: orderdom.BuyerSnapshot{
			UserID: uid,
			Email:  email,
			Name:   name,
		},
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		log.Printf("[store_checkout_handler] POST checkout uid=%s err=%v elapsed=%s", maskUID(uid), err, time.Since(start))
		writeDomainErr(w, err)
		return
	}

	log.Printf("[store_checkout_handler] POST checkout OK uid=%s order=%s total=%s elapsed=%s",
		maskUID(uid), ord.ID, ord.Total.StringFixed(2), time.Since(start))
	writeJSON(w, http.StatusCreated, toOrderView(ord))
}
