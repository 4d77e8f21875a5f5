// Package location yields the device position used for "weather here".
package location

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/i474232898/weather-favorites/internal/weather"
)

// ErrLocation signals a denied permission or an unavailable position.
var ErrLocation = errors.New("location unavailable")

// Default is used whenever the real position cannot be obtained (Warsaw).
var Default = weather.Coordinates{Lat: 52.2297, Lon: 21.0122}

// Provider returns the best-effort current position.
type Provider interface {
	Locate(ctx context.Context) (weather.Coordinates, error)
}

// Static reports a configured position. A nil position behaves like a denied
// permission.
type Static struct {
	Coords *weather.Coordinates
}

func (s Static) Locate(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrLocation, err)
	}
	if s.Coords == nil {
		return weather.Coordinates{}, fmt.Errorf("%w: no device position configured", ErrLocation)
	}
	return *s.Coords, nil
}

// WithFallback wraps a Provider so that it never fails: any error is logged
// and the fallback coordinate is returned instead.
type WithFallback struct {
	Provider Provider
	Fallback weather.Coordinates
}

// NewWithFallback wraps p with the Default coordinate.
func NewWithFallback(p Provider) WithFallback {
	return WithFallback{Provider: p, Fallback: Default}
}

func (w WithFallback) Locate(ctx context.Context) (weather.Coordinates, error) {
	if w.Provider == nil {
		return w.Fallback, nil
	}
	coords, err := w.Provider.Locate(ctx)
	if err != nil {
		log.Printf("INFO: location: %v; using fallback %.4f,%.4f", err, w.Fallback.Lat, w.Fallback.Lon)
		return w.Fallback, nil
	}
	return coords, nil
}
