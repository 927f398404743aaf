// Package order implements the order store and the delivery-progress
// lifecycle: pending -> in-transit -> delivered. Progress is derived from
// wall-clock time on every read, so it survives restarts and never drifts;
// the persisted row is refreshed opportunistically in the background.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/saksham2694/drone-meds-express/internal/domain"
	"github.com/saksham2694/drone-meds-express/internal/events"
	"github.com/saksham2694/drone-meds-express/internal/order/repository"
)

const (
	defaultCurrency = "USD"

	// ETA is assigned once at creation, like the storefront promises.
	minETAMinutes = 10
	maxETAMinutes = 30
)

type Service struct {
	repo      repository.OrderRepository
	publisher events.Publisher

	now func() time.Time
	eta func() int
}

func NewService(repo repository.OrderRepository, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		eta: func() int {
			return minETAMinutes + rand.Intn(maxETAMinutes-minETAMinutes+1)
		},
	}
}

// CreateOrder snapshots the given cart lines into a new order. The order is
// returned only after it is durably stored; on a persistence failure nothing
// is applied anywhere.
func (s *Service) CreateOrder(ctx context.Context, userID string, items []domain.OrderItem, address domain.Address) (*domain.Order, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	if err := address.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	order := &domain.Order{
		ID:               uuid.New(),
		UserID:           userID,
		Items:            append([]domain.OrderItem(nil), items...),
		Total:            total,
		Currency:         defaultCurrency,
		Status:           domain.OrderStatusPending,
		Address:          address,
		ETAMinutes:       s.eta(),
		DeliveryProgress: 0,
		CreatedAt:        s.now(),
	}
	order.UpdatedAt = order.CreatedAt

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publishAsync(events.NewOrderPlaced(order))

	return order, nil
}

// GetOrder returns the order with its progress re-derived from the clock.
func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.refreshProgress(order)
	return order, nil
}

// ListOrders returns the user's orders, most recent first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	orders, err := s.repo.ListOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for _, order := range orders {
		s.refreshProgress(order)
	}
	return orders, nil
}

// refreshProgress folds the time-derived progress into the in-memory order
// and schedules a write-back. Derived progress only ever matches or exceeds
// the stored value, so the order's progress is monotone across reads.
func (s *Service) refreshProgress(order *domain.Order) {
	if order.Status.IsTerminal() {
		return
	}

	derived := domain.ProgressAt(order.CreatedAt, order.ETAMinutes, s.now())
	if derived <= order.DeliveryProgress {
		return
	}

	order.DeliveryProgress = derived
	order.Status = domain.StatusForProgress(derived)

	// Write-back must not block or fail the read: progress is always
	// recoverable from the creation timestamp.
	go s.syncProgress(*order)
}

func (s *Service) syncProgress(order domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	applied, err := s.repo.UpdateDeliveryProgress(ctx, order.ID, order.DeliveryProgress, order.Status)
	if err != nil {
		log.Printf("progress write-back error for order %s: %v \n", order.ID, err)
		return
	}

	// The first writer to reach 100 announces the delivery. Later writers
	// match zero rows on the monotone guard and stay quiet.
	if applied && order.DeliveryProgress == 100 {
		s.publishAsync(events.NewOrderDelivered(&order))
	}
}

func (s *Service) publishAsync(event events.OrderEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("failed to publish %s event for order %s: %v \n", event.Type, event.OrderID, err)
		}
	}()
}
