// Package maps talks to the external static-map API used by the delivery
// tracker. The map is decoration: every failure degrades to an unloaded-map
// signal and a circuit breaker keeps a flaky upstream from slowing reads.
package maps

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

const defaultStyle = "mapbox/streets-v11"

type Config struct {
	BaseURL     string
	AccessToken string
	// Destination marker, fixed per deployment.
	Longitude float64
	Latitude  float64
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[bool]
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mapbox.com"
	}

	breaker := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        "static-maps",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		breaker:    breaker,
	}
}

// StaticMapURL builds the static image URL for the destination at the given
// zoom level.
func (c *Client) StaticMapURL(zoom float64) string {
	return fmt.Sprintf(
		"%s/styles/v1/%s/static/pin-s+555555(%f,%f)/%f,%f,%.1f/500x300?access_token=%s",
		c.cfg.BaseURL,
		defaultStyle,
		c.cfg.Longitude, c.cfg.Latitude,
		c.cfg.Longitude, c.cfg.Latitude,
		zoom,
		c.cfg.AccessToken,
	)
}

// Load checks that the static map is reachable and reports a loaded/unloaded
// signal for the presentation layer. It never returns an error to the caller;
// upstream trouble reads as an unloaded map.
func (c *Client) Load(ctx context.Context, zoom float64) bool {
	loaded, err := c.breaker.Execute(func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.StaticMapURL(zoom), nil)
		if err != nil {
			return false, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return false, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return false, fmt.Errorf("static map returned status %d", resp.StatusCode)
		}
		return true, nil
	})
	if err != nil {
		return false
	}
	return loaded
}
