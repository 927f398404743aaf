package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/saksham2694/drone-meds-express/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	addressJSON, err := json.Marshal(order.Address)
	if err != nil {
		return fmt.Errorf("failed to marshal order address: %w", err)
	}

	// Timestamps come from the caller, not the DB clock: derived progress
	// must match what the service handed out at creation.
	query := `INSERT INTO orders (id, user_id, items, total, currency, status, address, eta, delivery_progress, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		itemsJSON,
		order.Total,
		order.Currency,
		order.Status,
		addressJSON,
		order.ETAMinutes,
		order.DeliveryProgress,
		order.CreatedAt,
		order.UpdatedAt)

	if insertErr != nil {
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := selectOrderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	return order, nil
}

func (r *Repository) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := selectOrderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

// UpdateDeliveryProgress only ever moves progress forward. Stale writers
// (a slower request re-deriving an older value) match zero rows, which
// keeps progress monotone without locking.
func (r *Repository) UpdateDeliveryProgress(ctx context.Context, id uuid.UUID, progress int, status domain.OrderStatus) (bool, error) {
	query := `UPDATE orders SET delivery_progress = $2, status = $3, updated_at = NOW()
	          WHERE id = $1 AND delivery_progress < $2`

	result, err := r.db.ExecContext(ctx, query, id, progress, status)
	if err != nil {
		return false, fmt.Errorf("update delivery progress: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update delivery progress rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

const selectOrderColumns = `SELECT id, user_id, items, total, currency, status, address, eta, delivery_progress, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrder is the explicit deserialize boundary: the JSON blobs for items
// and address, and the status string, are validated before a domain.Order
// leaves this package.
func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order       domain.Order
		itemsJSON   []byte
		addressJSON []byte
		status      string
	)

	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&itemsJSON,
		&order.Total,
		&order.Currency,
		&status,
		&addressJSON,
		&order.ETAMinutes,
		&order.DeliveryProgress,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &order.Address); err != nil {
		return nil, fmt.Errorf("unmarshal order address: %w", err)
	}

	parsedStatus, err := domain.ToOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("order %s has status %q: %w", order.ID, status, err)
	}
	order.Status = parsedStatus

	if order.DeliveryProgress < 0 || order.DeliveryProgress > 100 {
		return nil, fmt.Errorf("order %s has delivery progress %d out of range", order.ID, order.DeliveryProgress)
	}

	return &order, nil
}
