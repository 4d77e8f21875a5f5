package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-favorites/internal/favorites"
	"github.com/i474232898/weather-favorites/internal/store"
	"github.com/i474232898/weather-favorites/internal/weather"
)

// stubProvider returns a fixed snapshot, or err when set.
type stubProvider struct {
	snap  weather.Snapshot
	err   error
	calls []weather.Coordinates
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Current(_ context.Context, coords weather.Coordinates) (weather.Snapshot, error) {
	p.calls = append(p.calls, coords)
	if p.err != nil {
		return weather.Snapshot{}, p.err
	}
	s := p.snap
	s.Coords = coords
	return s, nil
}

type stubSearcher struct{}

func (stubSearcher) Search(_ context.Context, q string) ([]weather.Candidate, error) {
	return []weather.Candidate{{Name: q, Country: "PL", Lat: 50.06, Lon: 19.94}}, nil
}

func newTestApp(t *testing.T, p *stubProvider) (*fiber.App, *store.FavoritesStore) {
	t.Helper()
	app := fiber.New()
	s := store.NewFavoritesStore(store.NewMemoryKV())
	RegisterRoutes(app, Services{
		Coordinator: favorites.NewCoordinator(p, s, nil),
		Store:       s,
		Searcher:    stubSearcher{},
	})
	return app, s
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

var warsaw = weather.Snapshot{Name: "Warszawa", Country: "PL", Temperature: 20, Description: "Bezchmurnie", Icon: "01d"}

func TestCurrentWeatherWithCoords(t *testing.T) {
	p := &stubProvider{snap: warsaw}
	app, _ := newTestApp(t, p)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather/current?lat=52.2297&lon=21.0122", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Weather    weather.Snapshot `json:"weather"`
		IsFavorite bool             `json:"isFavorite"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Warszawa", out.Weather.Name)
	assert.False(t, out.IsFavorite)
	assert.Equal(t, []weather.Coordinates{{Lat: 52.2297, Lon: 21.0122}}, p.calls)
}

func TestCurrentWeatherWithoutCoordsUsesFallback(t *testing.T) {
	p := &stubProvider{snap: warsaw}
	app, _ := newTestApp(t, p)

	resp, _ := do(t, app, http.MethodGet, "/api/v1/weather/current", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []weather.Coordinates{{Lat: 52.2297, Lon: 21.0122}}, p.calls)
}

func TestCurrentWeatherValidation(t *testing.T) {
	app, _ := newTestApp(t, &stubProvider{snap: warsaw})

	for _, target := range []string{
		"/api/v1/weather/current?lat=52",
		"/api/v1/weather/current?lat=abc&lon=1",
		"/api/v1/weather/current?lat=91&lon=1",
		"/api/v1/weather/current?lat=1&lon=-181",
	} {
		resp, _ := do(t, app, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestCurrentWeatherProviderFailure(t *testing.T) {
	p := &stubProvider{err: errors.New("HTTP 500")}
	app, s := newTestApp(t, p)

	resp, _ := do(t, app, http.MethodGet, "/api/v1/weather/current?lat=1&lon=2", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Empty(t, s.List(context.Background()))
}

func TestToggleAndListFavorites(t *testing.T) {
	app, _ := newTestApp(t, &stubProvider{snap: warsaw})
	body := `{"name":"Warszawa","country":"PL","temperature":20,"coords":{"lat":52.2297,"lon":21.0122}}`

	resp, raw := do(t, app, http.MethodPost, "/api/v1/favorites/toggle", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res favorites.ToggleResult
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.True(t, res.IsFavorite)
	assert.NotEmpty(t, res.Favorite.ID)

	resp, raw = do(t, app, http.MethodGet, "/api/v1/favorites", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var favs []store.Favorite
	require.NoError(t, json.Unmarshal(raw, &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, 52.2297, favs[0].Latitude)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/weather/current?lat=52.2297&lon=21.0122", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = do(t, app, http.MethodPost, "/api/v1/favorites/toggle", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.False(t, res.IsFavorite)

	resp, raw = do(t, app, http.MethodGet, "/api/v1/favorites", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestToggleRejectsInvalidSnapshot(t *testing.T) {
	app, _ := newTestApp(t, &stubProvider{snap: warsaw})

	resp, _ := do(t, app, http.MethodPost, "/api/v1/favorites/toggle", `{"country":"PL"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/favorites/toggle", `{"name":"X","coords":{"lat":100,"lon":0}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshFavorite(t *testing.T) {
	p := &stubProvider{snap: warsaw}
	app, s := newTestApp(t, p)
	ctx := context.Background()

	fav, err := s.Add(ctx, favorites.InputFromSnapshot(weather.Snapshot{
		Name: "Warszawa", Country: "PL", Temperature: 20,
		Coords: weather.Coordinates{Lat: 52.2297, Lon: 21.0122},
	}))
	require.NoError(t, err)

	p.snap.Temperature = 5
	resp, _ := do(t, app, http.MethodPost, "/api/v1/favorites/"+fav.ID+"/refresh", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	favs := s.List(ctx)
	require.Len(t, favs, 1)
	assert.Equal(t, fav.ID, favs[0].ID)
	assert.Equal(t, 5, favs[0].Temperature)
	assert.NotNil(t, favs[0].LastUpdated)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/favorites/unknown/refresh", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRemoveAndClear(t *testing.T) {
	app, s := newTestApp(t, &stubProvider{snap: warsaw})
	ctx := context.Background()

	fav, err := s.Add(ctx, store.FavoriteInput{Name: "Gdańsk", Country: "PL"})
	require.NoError(t, err)
	_, err = s.Add(ctx, store.FavoriteInput{Name: "Sopot", Country: "PL"})
	require.NoError(t, err)

	resp, _ := do(t, app, http.MethodDelete, "/api/v1/favorites/"+fav.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, app, http.MethodDelete, "/api/v1/favorites/"+fav.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, s.List(ctx), 1)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/settings", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, raw := do(t, app, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"theme":"dark"}`, string(raw))

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/data", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, s.List(ctx))
	assert.Empty(t, s.Settings(ctx))
}

func TestSearchValidation(t *testing.T) {
	app, _ := newTestApp(t, &stubProvider{snap: warsaw})

	resp, _ := do(t, app, http.MethodGet, "/api/v1/locations/search", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, app, http.MethodGet, "/api/v1/locations/search?q=K", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw := do(t, app, http.MethodGet, "/api/v1/locations/search?q=Krakow", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got []weather.Candidate
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Krakow", got[0].Name)
}
