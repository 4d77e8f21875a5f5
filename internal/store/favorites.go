package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-favorites/internal/metrics"
)

const (
	favoritesKey = "favorites"
	settingsKey  = "settings"
)

var (
	// ErrStorage is returned when the underlying KV cannot be read or written.
	ErrStorage = errors.New("storage failure")
	// ErrFavoriteNotFound is returned by Update for an unknown id.
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Conditions is the last-known weather copied onto a favorite.
type Conditions struct {
	Temperature int     `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"windSpeed"`
}

// FavoriteInput is a favorite as supplied by the caller, before it is stored.
type FavoriteInput struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Conditions
}

// Favorite is a persisted, user-bookmarked location.
type Favorite struct {
	ID string `json:"id"`
	FavoriteInput
	AddedAt     time.Time  `json:"addedAt"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// FavoritesStore owns the persisted favorites collection and the settings blob.
// Every mutation rewrites the whole collection under the favorites key.
//
// The mutex only orders writers inside this process; two processes sharing
// one database still race, and the last write wins.
type FavoritesStore struct {
	kv    KV
	mu    sync.Mutex
	now   func() time.Time
	newID func() (string, error)
}

// NewFavoritesStore creates a store persisting into kv.
func NewFavoritesStore(kv KV) *FavoritesStore {
	return &FavoritesStore{
		kv:  kv,
		now: time.Now,
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
}

// List returns all favorites in insertion order. Unreadable or corrupt
// storage yields an empty list.
func (s *FavoritesStore) List(ctx context.Context) []Favorite {
	favs, err := s.load(ctx)
	if err != nil {
		log.Printf("ERROR: favorites: list: %v", err)
		return []Favorite{}
	}
	return favs
}

// Add stores a new favorite at the end of the collection and returns it.
func (s *FavoritesStore) Add(ctx context.Context, in FavoriteInput) (fav Favorite, err error) {
	defer func() { metrics.ObserveMutation("add", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load(ctx)
	if err != nil {
		return Favorite{}, err
	}

	id, err := s.newID()
	if err != nil {
		return Favorite{}, fmt.Errorf("%w: generate id: %v", ErrStorage, err)
	}

	fav = Favorite{
		ID:            id,
		FavoriteInput: in,
		AddedAt:       s.now().UTC(),
	}
	if err := s.save(ctx, append(favs, fav)); err != nil {
		return Favorite{}, err
	}
	return fav, nil
}

// Remove deletes the favorite with id. An unknown id is not an error.
func (s *FavoritesStore) Remove(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveMutation("remove", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]Favorite, 0, len(favs))
	for _, f := range favs {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return s.save(ctx, kept)
}

// Update overwrites the weather conditions of the favorite with id in place,
// keeping its id, position and addedAt, and stamps lastUpdated.
func (s *FavoritesStore) Update(ctx context.Context, id string, c Conditions) (fav Favorite, err error) {
	defer func() { metrics.ObserveMutation("update", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load(ctx)
	if err != nil {
		return Favorite{}, err
	}

	for i := range favs {
		if favs[i].ID != id {
			continue
		}
		now := s.now().UTC()
		favs[i].Conditions = c
		favs[i].LastUpdated = &now
		if err := s.save(ctx, favs); err != nil {
			return Favorite{}, err
		}
		return favs[i], nil
	}
	return Favorite{}, fmt.Errorf("%w: %s", ErrFavoriteNotFound, id)
}

// Clear removes all favorites and the settings blob in a single multi-key
// delete. A failure may leave some keys removed.
func (s *FavoritesStore) Clear(ctx context.Context) (err error) {
	defer func() { metrics.ObserveMutation("clear", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.MultiRemove(ctx, favoritesKey, settingsKey); err != nil {
		return fmt.Errorf("%w: clear: %v", ErrStorage, err)
	}
	metrics.SetFavoritesStored(0)
	return nil
}

// Settings returns the stored settings, or an empty map when none can be read.
func (s *FavoritesStore) Settings(ctx context.Context) map[string]any {
	settings := map[string]any{}

	raw, ok, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		log.Printf("ERROR: settings: read: %v", err)
		return settings
	}
	if !ok {
		return settings
	}
	if err := json.Unmarshal(raw, &settings); err != nil || settings == nil {
		log.Printf("ERROR: settings: corrupt value ignored: %v", err)
		return map[string]any{}
	}
	return settings
}

// SaveSettings replaces the settings blob.
func (s *FavoritesStore) SaveSettings(ctx context.Context, settings map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings == nil {
		settings = map[string]any{}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: encode settings: %v", ErrStorage, err)
	}
	if err := s.kv.Set(ctx, settingsKey, raw); err != nil {
		return fmt.Errorf("%w: write settings: %v", ErrStorage, err)
	}
	return nil
}

// load reads the collection. A read failure is an ErrStorage; a corrupt value
// is logged and treated as empty so the next write replaces it.
func (s *FavoritesStore) load(ctx context.Context) ([]Favorite, error) {
	raw, ok, err := s.kv.Get(ctx, favoritesKey)
	if err != nil {
		return nil, fmt.Errorf("%w: read favorites: %v", ErrStorage, err)
	}
	if !ok {
		return []Favorite{}, nil
	}

	var favs []Favorite
	if err := json.Unmarshal(raw, &favs); err != nil {
		log.Printf("ERROR: favorites: corrupt value ignored: %v", err)
		return []Favorite{}, nil
	}
	if favs == nil {
		favs = []Favorite{}
	}
	return favs, nil
}

func (s *FavoritesStore) save(ctx context.Context, favs []Favorite) error {
	raw, err := json.Marshal(favs)
	if err != nil {
		return fmt.Errorf("%w: encode favorites: %v", ErrStorage, err)
	}
	if err := s.kv.Set(ctx, favoritesKey, raw); err != nil {
		return fmt.Errorf("%w: write favorites: %v", ErrStorage, err)
	}
	metrics.SetFavoritesStored(len(favs))
	return nil
}
