package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/saksham2694/drone-meds-express/internal/domain"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, items []domain.OrderItem, address domain.Address) (*domain.Order, error)
}

type CheckoutHandler struct {
	cart    CartService
	orders  OrderService
	timeout time.Duration
}

func NewCheckoutHandler(cart CartService, orders OrderService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		cart:    cart,
		orders:  orders,
		timeout: timeout,
	}
}

type CheckoutRequestDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Checkout places an order from the caller's current cart.
//
// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	address := domain.Address{
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	}
	if err := address.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_address", err.Error())
		return
	}

	cart, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if len(cart.Items) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
		return
	}

	items := lo.Map(cart.Items, func(item domain.CartItem, _ int) domain.OrderItem {
		return domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	})

	order, err := h.orders.CreateOrder(ctx, userID, items, address)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// The order is already durable; a stale cart is a nuisance, not a failure.
	if err := h.cart.ClearCart(ctx, userID); err != nil {
		log.Printf("checkout: failed to clear cart for user %s (request %s): %v",
			userID, getRequestID(r.Context()), err)
	}

	respondJSON(w, http.StatusCreated, convertOrder(order))
}
