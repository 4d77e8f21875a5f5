package location

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-favorites/internal/weather"
)

type failingProvider struct{}

func (failingProvider) Locate(context.Context) (weather.Coordinates, error) {
	return weather.Coordinates{}, errors.New("permission denied")
}

func TestStaticWithoutCoordsFails(t *testing.T) {
	_, err := Static{}.Locate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocation)
}

func TestStaticReturnsConfiguredCoords(t *testing.T) {
	want := weather.Coordinates{Lat: 50.06, Lon: 19.94}
	got, err := Static{Coords: &want}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWithFallbackAbsorbsErrors(t *testing.T) {
	got, err := NewWithFallback(failingProvider{}).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Default, got)
	assert.Equal(t, 52.2297, got.Lat)
	assert.Equal(t, 21.0122, got.Lon)
}

func TestWithFallbackPassesThrough(t *testing.T) {
	want := weather.Coordinates{Lat: 54.35, Lon: 18.65}
	got, err := NewWithFallback(Static{Coords: &want}).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
