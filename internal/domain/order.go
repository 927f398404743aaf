package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is an immutable snapshot of a checkout. Only DeliveryProgress,
// Status and UpdatedAt change after creation, and only forward.
type Order struct {
	ID               uuid.UUID
	UserID           string
	Items            []OrderItem
	Total            float64
	Currency         string
	Status           OrderStatus
	Address          Address
	ETAMinutes       int
	DeliveryProgress int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (o *Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}
