package favorites

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-favorites/internal/location"
	"github.com/i474232898/weather-favorites/internal/store"
	"github.com/i474232898/weather-favorites/internal/weather"
)

// MockProvider is a mock implementation of weather.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Current(ctx context.Context, coords weather.Coordinates) (weather.Snapshot, error) {
	args := m.Called(ctx, coords)
	return args.Get(0).(weather.Snapshot), args.Error(1)
}

type deniedLocator struct{}

func (deniedLocator) Locate(context.Context) (weather.Coordinates, error) {
	return weather.Coordinates{}, fmt.Errorf("%w: permission denied", location.ErrLocation)
}

var warsawCoords = weather.Coordinates{Lat: 52.2297, Lon: 21.0122}

func warsawSnapshot(temp int) weather.Snapshot {
	return weather.Snapshot{
		PlaceID:     756135,
		Name:        "Warszawa",
		Country:     "PL",
		Temperature: temp,
		Description: "Bezchmurnie",
		Icon:        "01d",
		Humidity:    40,
		Pressure:    1015,
		WindSpeed:   3.1,
		Coords:      warsawCoords,
	}
}

func newTestCoordinator(t *testing.T) (*Coordinator, *MockProvider, *store.FavoritesStore) {
	t.Helper()
	p := new(MockProvider)
	s := store.NewFavoritesStore(store.NewMemoryKV())
	return NewCoordinator(p, s, nil), p, s
}

func TestRefreshCurrentPassesSnapshot(t *testing.T) {
	c, p, _ := newTestCoordinator(t)
	p.On("Current", mock.Anything, warsawCoords).Return(warsawSnapshot(20), nil).Once()

	snap, err := c.RefreshCurrent(context.Background(), warsawCoords)
	require.NoError(t, err)
	assert.Equal(t, "Warszawa", snap.Name)
	p.AssertExpectations(t)
}

func TestRefreshCurrentWrapsFailureWithoutRetry(t *testing.T) {
	c, p, s := newTestCoordinator(t)
	p.On("Current", mock.Anything, warsawCoords).Return(weather.Snapshot{}, errors.New("HTTP 500")).Once()

	_, err := c.RefreshCurrent(context.Background(), warsawCoords)
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrWeatherFetch)
	p.AssertNumberOfCalls(t, "Current", 1)
	assert.Empty(t, s.List(context.Background()))
}

func TestCurrentWeatherFallsBackToDefault(t *testing.T) {
	p := new(MockProvider)
	s := store.NewFavoritesStore(store.NewMemoryKV())
	c := NewCoordinator(p, s, deniedLocator{})
	p.On("Current", mock.Anything, location.Default).Return(warsawSnapshot(18), nil).Once()

	snap, err := c.CurrentWeather(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 18, snap.Temperature)
	p.AssertExpectations(t)
}

func TestIsFavoriteMatchesNameAndCountryOnly(t *testing.T) {
	snap := warsawSnapshot(20)
	favs := []store.Favorite{
		{ID: "a", FavoriteInput: store.FavoriteInput{Name: "Warszawa", Country: "US", Latitude: 1}},
		{ID: "b", FavoriteInput: store.FavoriteInput{Name: "Kraków", Country: "PL"}},
	}
	assert.False(t, IsFavorite(snap, favs))
	assert.False(t, IsFavorite(snap, nil))

	favs = append(favs, store.Favorite{
		ID:            "c",
		FavoriteInput: store.FavoriteInput{Name: "Warszawa", Country: "PL", Latitude: -3, Conditions: store.Conditions{Temperature: -40}},
	})
	assert.True(t, IsFavorite(snap, favs))

	f, ok := FindFavorite(snap, favs)
	require.True(t, ok)
	assert.Equal(t, "c", f.ID)
}

func TestToggleFavoriteTwice(t *testing.T) {
	ctx := context.Background()
	c, _, s := newTestCoordinator(t)
	snap := warsawSnapshot(20)

	res, err := c.ToggleFavorite(ctx, snap)
	require.NoError(t, err)
	assert.True(t, res.IsFavorite)

	favs := s.List(ctx)
	require.Len(t, favs, 1)
	assert.Equal(t, "Warszawa", favs[0].Name)
	assert.Equal(t, "PL", favs[0].Country)
	assert.Equal(t, 20, favs[0].Temperature)
	assert.Equal(t, warsawCoords.Lat, favs[0].Latitude)
	assert.Equal(t, warsawCoords.Lon, favs[0].Longitude)

	res, err = c.ToggleFavorite(ctx, snap)
	require.NoError(t, err)
	assert.False(t, res.IsFavorite)
	assert.Equal(t, favs[0].ID, res.Favorite.ID)
	assert.Empty(t, s.List(ctx))
}

func TestToggleFavoriteRemovesFirstDuplicate(t *testing.T) {
	ctx := context.Background()
	c, _, s := newTestCoordinator(t)

	first, err := s.Add(ctx, InputFromSnapshot(warsawSnapshot(10)))
	require.NoError(t, err)
	second, err := s.Add(ctx, InputFromSnapshot(warsawSnapshot(11)))
	require.NoError(t, err)

	res, err := c.ToggleFavorite(ctx, warsawSnapshot(12))
	require.NoError(t, err)
	assert.Equal(t, first.ID, res.Favorite.ID)

	favs := s.List(ctx)
	require.Len(t, favs, 1)
	assert.Equal(t, second.ID, favs[0].ID)
}

func TestRefreshFavoriteUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	c, p, s := newTestCoordinator(t)

	fav, err := s.Add(ctx, InputFromSnapshot(warsawSnapshot(20)))
	require.NoError(t, err)
	p.On("Current", mock.Anything, warsawCoords).Return(warsawSnapshot(5), nil).Once()

	updated, snap, err := c.RefreshFavorite(ctx, fav)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Temperature)
	assert.Equal(t, fav.ID, updated.ID)
	assert.Equal(t, 5, updated.Temperature)
	require.NotNil(t, updated.LastUpdated)
	assert.False(t, updated.LastUpdated.IsZero())

	favs := s.List(ctx)
	require.Len(t, favs, 1)
	assert.Equal(t, fav.ID, favs[0].ID)
	assert.Equal(t, 5, favs[0].Temperature)
	assert.NotNil(t, favs[0].LastUpdated)
}

func TestRefreshFavoriteFetchFailureLeavesStore(t *testing.T) {
	ctx := context.Background()
	c, p, s := newTestCoordinator(t)

	fav, err := s.Add(ctx, InputFromSnapshot(warsawSnapshot(20)))
	require.NoError(t, err)
	p.On("Current", mock.Anything, warsawCoords).Return(weather.Snapshot{}, weather.ErrWeatherFetch).Once()

	_, _, err = c.RefreshFavorite(ctx, fav)
	assert.ErrorIs(t, err, weather.ErrWeatherFetch)

	favs := s.List(ctx)
	require.Len(t, favs, 1)
	assert.Equal(t, 20, favs[0].Temperature)
	assert.Nil(t, favs[0].LastUpdated)
}

func TestRefreshFavoriteByIDUnknown(t *testing.T) {
	c, p, _ := newTestCoordinator(t)

	_, _, err := c.RefreshFavoriteByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrFavoriteNotFound)
	p.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
}
