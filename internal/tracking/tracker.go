package tracking

import (
	"context"
	"math"

	"github.com/saksham2694/drone-meds-express/internal/domain"
)

// MapLoader is the slice of the maps client the tracker needs.
type MapLoader interface {
	StaticMapURL(zoom float64) string
	Load(ctx context.Context, zoom float64) bool
}

// DronePosition is the marker position on the map widget, in percent of the
// widget's width and height.
type DronePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is everything the presentation layer needs to render a delivery.
type Snapshot struct {
	OrderID          string        `json:"order_id"`
	Status           string        `json:"status"`
	Progress         int           `json:"progress"`
	ETAMinutes       int           `json:"eta_minutes"`
	RemainingMinutes int           `json:"remaining_minutes"`
	Drone            DronePosition `json:"drone"`
	MapZoom          float64       `json:"map_zoom"`
	MapURL           string        `json:"map_url"`
	MapLoaded        bool          `json:"map_loaded"`
}

type Tracker struct {
	maps MapLoader
}

func NewTracker(maps MapLoader) *Tracker {
	return &Tracker{maps: maps}
}

// Snapshot derives the cosmetic delivery view from the order's progress.
// The drone flies left to right with a small wave, and the map zooms in as
// the drone approaches the destination.
func (t *Tracker) Snapshot(ctx context.Context, order *domain.Order) Snapshot {
	progress := float64(order.DeliveryProgress)
	zoom := 14 + (progress/100)*4

	return Snapshot{
		OrderID:          order.ID.String(),
		Status:           order.Status.String(),
		Progress:         order.DeliveryProgress,
		ETAMinutes:       order.ETAMinutes,
		RemainingMinutes: domain.RemainingMinutes(order.ETAMinutes, order.DeliveryProgress),
		Drone: DronePosition{
			X: 10 + progress*0.8,
			Y: 50 + math.Sin(progress*0.1)*10,
		},
		MapZoom:   zoom,
		MapURL:    t.maps.StaticMapURL(zoom),
		MapLoaded: t.maps.Load(ctx, zoom),
	}
}
