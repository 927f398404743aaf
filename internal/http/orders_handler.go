package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/saksham2694/drone-meds-express/internal/domain"
	"github.com/saksham2694/drone-meds-express/internal/order/repository"
	"github.com/saksham2694/drone-meds-express/internal/tracking"
)

type OrderReader interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
}

type DeliveryTracker interface {
	Snapshot(ctx context.Context, order *domain.Order) tracking.Snapshot
}

type OrdersHandler struct {
	orders  OrderReader
	tracker DeliveryTracker
	timeout time.Duration
}

func NewOrdersHandler(orders OrderReader, tracker DeliveryTracker, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		tracker: tracker,
		timeout: timeout,
	}
}

type OrderItemDTO struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type AddressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type OrderResponseDTO struct {
	ID               string         `json:"id"`
	Items            []OrderItemDTO `json:"items"`
	Total            float64        `json:"total"`
	Currency         string         `json:"currency"`
	Status           string         `json:"status"`
	Address          AddressDTO     `json:"address"`
	ETAMinutes       int            `json:"eta_minutes"`
	DeliveryProgress int            `json:"delivery_progress"`
	CreatedAt        time.Time      `json:"created_at"`
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListOrders(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lo.Map(orders, func(o *domain.Order, _ int) OrderResponseDTO {
		return convertOrder(o)
	}))
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, ok := h.ownedOrder(ctx, w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// GET /api/v1/orders/{order_id}/tracking
func (h *OrdersHandler) GetTracking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, ok := h.ownedOrder(ctx, w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, h.tracker.Snapshot(ctx, order))
}

// ownedOrder loads the order from the URL and checks it belongs to the
// caller. Orders owned by someone else are reported as not found rather
// than forbidden, so order ids cannot be probed.
func (h *OrdersHandler) ownedOrder(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return nil, false
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid UUID")
		return nil, false
	}

	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return nil, false
	}

	if order.UserID != userID {
		handleServiceError(w, repository.ErrOrderNotFound)
		return nil, false
	}

	return order, true
}

func convertOrder(order *domain.Order) OrderResponseDTO {
	return OrderResponseDTO{
		ID: order.ID.String(),
		Items: lo.Map(order.Items, func(item domain.OrderItem, _ int) OrderItemDTO {
			return OrderItemDTO{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Price:       item.Price,
			}
		}),
		Total:    order.Total,
		Currency: order.Currency,
		Status:   order.Status.String(),
		Address: AddressDTO{
			Street:  order.Address.Street,
			City:    order.Address.City,
			State:   order.Address.State,
			ZipCode: order.Address.ZipCode,
		},
		ETAMinutes:       order.ETAMinutes,
		DeliveryProgress: order.DeliveryProgress,
		CreatedAt:        order.CreatedAt,
	}
}
