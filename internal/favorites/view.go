package favorites

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/weather-favorites/internal/weather"
)

// State is the lifecycle of one displayed location.
type State int

const (
	StateUnknown State = iota
	StateLoading
	StateFailed
	StateFavorited
	StateUnfavorited
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFailed:
		return "failed"
	case StateFavorited:
		return "favorited"
	case StateUnfavorited:
		return "unfavorited"
	default:
		return "unknown"
	}
}

// Loaded reports whether a snapshot is on display. A successful load resolves
// straight to Favorited or Unfavorited, so there is no separate loaded state.
func (s State) Loaded() bool {
	return s == StateFavorited || s == StateUnfavorited
}

var (
	// ErrNotLoaded is returned by Toggle before a snapshot has been loaded.
	ErrNotLoaded = errors.New("no weather loaded")
	// ErrViewClosed is returned once the view has been closed.
	ErrViewClosed = errors.New("view closed")
)

// View tracks the state of a single displayed location:
//
//	Unknown -> Loading -> Favorited | Unfavorited
//	                   -> Failed
//
// Toggle flips between Favorited and Unfavorited. Failed is left only by
// calling Load again. A failed load or toggle keeps the previous snapshot.
type View struct {
	c *Coordinator

	mu       sync.Mutex
	state    State
	snapshot *weather.Snapshot
	gen      uint64
	closed   bool
}

// NewView creates a view in StateUnknown.
func (c *Coordinator) NewView() *View {
	return &View{c: c}
}

// State returns the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Snapshot returns the last successfully loaded snapshot, if any.
func (v *View) Snapshot() (weather.Snapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.snapshot == nil {
		return weather.Snapshot{}, false
	}
	return *v.snapshot, true
}

// Load fetches weather for coords and resolves the favorite status.
// When a newer Load starts, or the view is closed, before this one finishes,
// its result is discarded.
func (v *View) Load(ctx context.Context, coords weather.Coordinates) (weather.Snapshot, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return weather.Snapshot{}, ErrViewClosed
	}
	v.gen++
	gen := v.gen
	v.state = StateLoading
	v.mu.Unlock()

	snap, err := v.c.RefreshCurrent(ctx, coords)

	var fav bool
	if err == nil {
		fav = IsFavorite(snap, v.c.Favorites(ctx))
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return weather.Snapshot{}, ErrViewClosed
	}
	if gen != v.gen {
		return snap, err
	}
	if err != nil {
		v.state = StateFailed
		return weather.Snapshot{}, err
	}

	v.snapshot = &snap
	// Loaded resolves immediately; the favorite status is already known.
	v.state = favoriteState(fav)
	return snap, nil
}

// Toggle adds or removes the displayed location from the favorites.
func (v *View) Toggle(ctx context.Context) (ToggleResult, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ToggleResult{}, ErrViewClosed
	}
	if v.snapshot == nil || (v.state != StateFavorited && v.state != StateUnfavorited) {
		v.mu.Unlock()
		return ToggleResult{}, ErrNotLoaded
	}
	snap := *v.snapshot
	gen := v.gen
	v.mu.Unlock()

	res, err := v.c.ToggleFavorite(ctx, snap)
	if err != nil {
		return ToggleResult{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed && gen == v.gen {
		v.state = favoriteState(res.IsFavorite)
	}
	return res, nil
}

// Close discards any in-flight result; further calls return ErrViewClosed.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

func favoriteState(fav bool) State {
	if fav {
		return StateFavorited
	}
	return StateUnfavorited
}
