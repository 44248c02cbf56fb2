// internal/adapters/in/http/store/handler/cart_handler.go
package storeHandler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tienda/internal/adapters/in/http/middleware"
	usecase "tienda/internal/application/usecase"
	cartdom "tienda/internal/domain/cart"
)

// CartHandler serves the storefront cart endpoints.
//
//   - POST   /store/cart/guest   mint a guest cart id
//   - GET    /store/cart         current cart
//   - DELETE /store/cart         clear
//   - POST   /store/cart/items   add item
//   - PUT    /store/cart/items   set quantity
//   - DELETE /store/cart/items   remove item
//   - POST   /store/cart/migrate merge guest cart into the signed-in user's
type CartHandler struct {
	uc         *usecase.CartUsecase
	migrations *usecase.CartMigrationUsecase
}

func NewCartHandler(uc *usecase.CartUsecase, migrations *usecase.CartMigrationUsecase) http.Handler {
	return &CartHandler{uc: uc, migrations: migrations}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/cart/guest"):
		h.handleMintGuest(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/cart/migrate"):
		h.handleMigrate(w, r, start)
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/cart"):
		h.handleGet(w, r)
	case r.Method == http.MethodDelete && strings.HasSuffix(path, "/cart"):
		h.handleClear(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/cart/items"):
		h.handleAddItem(w, r, start)
	case r.Method == http.MethodPut && strings.HasSuffix(path, "/cart/items"):
		h.handleSetQty(w, r, start)
	case r.Method == http.MethodDelete && strings.HasSuffix(path, "/cart/items"):
		h.handleRemoveItem(w, r, start)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *CartHandler) handleMintGuest(w http.ResponseWriter, _ *http.Request) {
	id := cartdom.NewGuestID()
	log.Printf("[store_cart_handler] minted guest cart id=%s", id)
	writeJSON(w, http.StatusCreated, map[string]string{"guestCartId": id})
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	owner, err := resolveOwner(r)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, err.Error())
		return
	}

	c, err := h.uc.GetCart(r.Context(), owner)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(owner, c))
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	owner, err := resolveOwner(r)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, err.Error())
		return
	}

	c, err := h.uc.ClearCart(r.Context(), owner)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(owner, c))
}

type cartItemReq struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request, start time.Time) {
	owner, err := resolveOwner(r)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req cartItemReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	price := decimal.Zero
	if s := strings.TrimSpace(req.Price); s != "" {
		price, err = decimal.NewFromString(s)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid price")
			return
		}
	}

	c, err := h.uc.AddToCart(r.Context(), owner, usecase.AddItemInput{
		ProductID: req.ProductID,
		Size:      req.Size,
		Name:      req.Name,
		Price:     price,
		Image:     req.Image,
		Quantity:  req.Quantity,
	})
	if err != nil {
		log.Printf("[store_cart_handler] POST add-item owner=%s err=%v elapsed=%s", maskUID(owner.ID), err, time.Since(start))
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(owner, c))
}

func (h *CartHandler) handleSetQty(w http.ResponseWriter, r *http.Request, start time.Time) {
	owner, err := resolveOwner(r)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req cartItemReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || strings.TrimSpace(req.Size) == "" {
		writeErr(w, http.StatusBadRequest, "productId and size are required")
		return
	}

	c, err := h.uc.UpdateQuantity(r.Context(), owner, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		log.Printf("[store_cart_handler] PUT set-qty owner=%s err=%v elapsed=%s", maskUID(owner.ID), err, time.Since(start))
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(owner, c))
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, start time.Time) {
	owner, err := resolveOwner(r)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, err.Error())
		return
	}

	// DELETE takes query params so clients without a body can call it too.
	productID := strings.TrimSpace(r.URL.Query().Get("productId"))
	size := strings.TrimSpace(r.URL.Query().Get("size"))
	if productID == "" || size == "" {
		var req cartItemReq
		if err := readJSON(r, &req); err == nil {
			productID = strings.TrimSpace(req.ProductID)
			size = strings.TrimSpace(req.Size)
		}
	}
	if productID == "" || size == "" {
		writeErr(w, http.StatusBadRequest, "productId and size are required")
		return
	}

	c, err := h.uc.RemoveFromCart(r.Context(), owner, productID, size)
	if err != nil {
		log.Printf("[store_cart_handler] DELETE remove-item owner=%s err=%v elapsed=%s", maskUID(owner.ID), err, time.Since(start))
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(owner, c))
}

type migrateReq struct {
	GuestCartID string `json:"guestCartId"`
}

func (h *CartHandler) handleMigrate(w http.ResponseWriter, r *http.Request, start time.Time) {
	if h.migrations == nil {
		writeErr(w, http.StatusInternalServerError, "cart migration is not configured")
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	var req migrateReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	gid := strings.TrimSpace(req.GuestCartID)
	if gid == "" {
		if v, okHdr := middleware.GuestCartID(r); okHdr {
			gid = v
		}
	}
	if gid == "" {
		writeErr(w, http.StatusBadRequest, "guestCartId is required")
		return
	}

	res, err := h.migrations.Migrate(r.Context(), uid, gid)
	if err != nil {
		log.Printf("[store_cart_handler] POST migrate uid=%s guest=%s err=%v elapsed=%s", maskUID(uid), gid, err, time.Since(start))
		writeDomainErr(w, err)
		return
	}

	owner, err := cartdom.UserOwner(uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	c, err := h.uc.GetCart(r.Context(), owner)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	skipped := res.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"alreadyMigrated": res.AlreadyMigrated,
		"merged":          res.Merged,
		"skipped":         skipped,
		"cart":            toCartView(owner, c),
	})
}
