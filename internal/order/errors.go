package order

import "errors"

var (
	// ErrAuthRequired is returned when an order is created without an owner.
	ErrAuthRequired = errors.New("user must be logged in to create an order")
	// ErrValidation covers empty carts and incomplete addresses.
	ErrValidation = errors.New("order validation failed")
	// ErrPersistence wraps durable-store failures. When it is returned the
	// order was NOT applied anywhere, so memory and storage stay in sync.
	ErrPersistence = errors.New("order persistence failed")
)
