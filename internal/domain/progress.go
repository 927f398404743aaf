package domain

import (
	"math"
	"time"
)

// Delivery progress is a pure function of wall-clock time and the order's
// creation time. Deriving it on every read keeps progress idempotent and
// reload-safe: there is no background ticker to duplicate or to lose state
// when a process restarts.

// ProgressAt returns the delivery progress percentage for an order created
// at createdAt with the given total delivery duration in minutes.
func ProgressAt(createdAt time.Time, etaMinutes int, now time.Time) int {
	if etaMinutes <= 0 {
		return 100
	}

	elapsed := now.Sub(createdAt)
	if elapsed <= 0 {
		return 0
	}

	total := time.Duration(etaMinutes) * time.Minute
	// Checked before the multiply: elapsed*100 overflows time.Duration for
	// orders roughly three years old.
	if elapsed >= total {
		return 100
	}
	return int(elapsed * 100 / total)
}

// StatusForProgress derives the order status from its progress percentage.
func StatusForProgress(progress int) OrderStatus {
	switch {
	case progress <= 0:
		return OrderStatusPending
	case progress >= 100:
		return OrderStatusDelivered
	default:
		return OrderStatusInTransit
	}
}

// RemainingMinutes estimates minutes left until delivery.
func RemainingMinutes(etaMinutes, progress int) int {
	if progress >= 100 {
		return 0
	}
	return int(math.Ceil(float64(etaMinutes) * (1 - float64(progress)/100)))
}
