// Package favorites ties live weather fetches to favorite-record mutations.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/i474232898/weather-favorites/internal/location"
	"github.com/i474232898/weather-favorites/internal/store"
	"github.com/i474232898/weather-favorites/internal/weather"
)

// Store is the subset of the favorites store the coordinator writes through.
type Store interface {
	List(ctx context.Context) []store.Favorite
	Add(ctx context.Context, in store.FavoriteInput) (store.Favorite, error)
	Remove(ctx context.Context, id string) error
	Update(ctx context.Context, id string, c store.Conditions) (store.Favorite, error)
}

// Coordinator orchestrates the provider, the locator and the favorites store.
// It holds no favorites state of its own; every decision is made against a
// fresh List.
type Coordinator struct {
	provider weather.Provider
	store    Store
	locator  location.Provider
}

// NewCoordinator creates a Coordinator. The locator is wrapped so that a
// location failure always degrades to the default coordinate.
func NewCoordinator(provider weather.Provider, s Store, locator location.Provider) *Coordinator {
	return &Coordinator{
		provider: provider,
		store:    s,
		locator:  location.NewWithFallback(locator),
	}
}

// ToggleResult reports what ToggleFavorite did.
type ToggleResult struct {
	Favorite   store.Favorite `json:"favorite"`
	IsFavorite bool           `json:"isFavorite"` // state after the toggle
}

// RefreshCurrent fetches weather for coords. There is no retry; failures are
// returned wrapped in weather.ErrWeatherFetch.
func (c *Coordinator) RefreshCurrent(ctx context.Context, coords weather.Coordinates) (weather.Snapshot, error) {
	snap, err := c.provider.Current(ctx, coords)
	if err != nil {
		if !errors.Is(err, weather.ErrWeatherFetch) {
			err = fmt.Errorf("%w: %v", weather.ErrWeatherFetch, err)
		}
		return weather.Snapshot{}, err
	}
	return snap, nil
}

// CurrentWeather fetches weather at the device position, or at the default
// coordinate when the position is unavailable.
func (c *Coordinator) CurrentWeather(ctx context.Context) (weather.Snapshot, error) {
	coords, _ := c.locator.Locate(ctx)
	return c.RefreshCurrent(ctx, coords)
}

// Favorites returns the stored favorites.
func (c *Coordinator) Favorites(ctx context.Context) []store.Favorite {
	return c.store.List(ctx)
}

// IsFavorite reports whether some favorite has the snapshot's (name, country).
func IsFavorite(snap weather.Snapshot, favs []store.Favorite) bool {
	_, ok := FindFavorite(snap, favs)
	return ok
}

// FindFavorite returns the first favorite matching the snapshot's (name, country).
// Duplicates are possible; only the first one is ever returned.
func FindFavorite(snap weather.Snapshot, favs []store.Favorite) (store.Favorite, bool) {
	for _, f := range favs {
		if f.Name == snap.Name && f.Country == snap.Country {
			return f, true
		}
	}
	return store.Favorite{}, false
}

// ToggleFavorite removes the first favorite matching the snapshot, or adds a
// new one built from it when none matches.
func (c *Coordinator) ToggleFavorite(ctx context.Context, snap weather.Snapshot) (ToggleResult, error) {
	favs := c.store.List(ctx)

	if existing, ok := FindFavorite(snap, favs); ok {
		if err := c.store.Remove(ctx, existing.ID); err != nil {
			return ToggleResult{}, err
		}
		log.Printf("INFO: favorites: removed %s (%s)", existing.Name, existing.ID)
		return ToggleResult{Favorite: existing, IsFavorite: false}, nil
	}

	added, err := c.store.Add(ctx, InputFromSnapshot(snap))
	if err != nil {
		return ToggleResult{}, err
	}
	log.Printf("INFO: favorites: added %s (%s)", added.Name, added.ID)
	return ToggleResult{Favorite: added, IsFavorite: true}, nil
}

// RefreshFavorite re-fetches weather at the favorite's stored coordinates and
// updates its cached conditions in place. The id is preserved. A failed fetch
// leaves the store untouched.
func (c *Coordinator) RefreshFavorite(ctx context.Context, fav store.Favorite) (store.Favorite, weather.Snapshot, error) {
	snap, err := c.RefreshCurrent(ctx, weather.Coordinates{Lat: fav.Latitude, Lon: fav.Longitude})
	if err != nil {
		return store.Favorite{}, weather.Snapshot{}, err
	}

	updated, err := c.store.Update(ctx, fav.ID, ConditionsFromSnapshot(snap))
	if err != nil {
		return store.Favorite{}, snap, err
	}
	return updated, snap, nil
}

// RefreshFavoriteByID looks the favorite up by id, then refreshes it.
func (c *Coordinator) RefreshFavoriteByID(ctx context.Context, id string) (store.Favorite, weather.Snapshot, error) {
	for _, f := range c.store.List(ctx) {
		if f.ID == id {
			return c.RefreshFavorite(ctx, f)
		}
	}
	return store.Favorite{}, weather.Snapshot{}, fmt.Errorf("%w: %s", store.ErrFavoriteNotFound, id)
}

// InputFromSnapshot builds a new favorite from the displayed weather.
func InputFromSnapshot(snap weather.Snapshot) store.FavoriteInput {
	return store.FavoriteInput{
		Name:       snap.Name,
		Country:    snap.Country,
		Latitude:   snap.Coords.Lat,
		Longitude:  snap.Coords.Lon,
		Conditions: ConditionsFromSnapshot(snap),
	}
}

// ConditionsFromSnapshot copies the weather fields cached on a favorite.
func ConditionsFromSnapshot(snap weather.Snapshot) store.Conditions {
	return store.Conditions{
		Temperature: snap.Temperature,
		Description: snap.Description,
		Icon:        snap.Icon,
		Humidity:    snap.Humidity,
		Pressure:    snap.Pressure,
		WindSpeed:   snap.WindSpeed,
	}
}
