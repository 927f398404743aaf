package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/saksham2694/drone-meds-express/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	// UpdateDeliveryProgress persists a derived progress value. Writes that
	// would move progress backwards are skipped and report applied=false.
	UpdateDeliveryProgress(ctx context.Context, id uuid.UUID, progress int, status domain.OrderStatus) (bool, error)
	RunMigrations(*Credentials) error
	Close() error
}
