package domain

import (
	"time"

	"github.com/samber/lo"
)

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID   int64     `bson:"product_id" json:"product_id"`
	ProductName string    `bson:"product_name" json:"product_name"`
	Price       float64   `bson:"price" json:"price"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	AddedAt     time.Time `bson:"added_at" json:"added_at"`
}

// TotalItems is the sum of all line quantities. Derived, never stored.
func (c *Cart) TotalItems() int {
	return lo.SumBy(c.Items, func(i CartItem) int { return i.Quantity })
}

// TotalPrice is the sum of price times quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	return lo.SumBy(c.Items, func(i CartItem) float64 { return i.Price * float64(i.Quantity) })
}
