package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-favorites/internal/weather"
)

// OpenWeatherProvider implements weather.Provider and weather.Searcher for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	lang    string
	baseURL string
	geoURL  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	// geocoding trips separately so failed searches never block Current.
	geoCircuit *gobreaker.CircuitBreaker
	now        func() time.Time
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, apiKey, lang string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:       "openweathermap",
		apiKey:     apiKey,
		lang:       lang,
		baseURL:    "https://api.openweathermap.org/data/2.5/weather",
		geoURL:     "https://api.openweathermap.org/geo/1.0/direct",
		httpCfg:    cfg,
		circuit:    newCircuitBreaker("openweather"),
		geoCircuit: newCircuitBreaker("openweather-geo"),
		now:        time.Now,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Current fetches the current weather at coords. Every failure wraps weather.ErrWeatherFetch.
func (p *OpenWeatherProvider) Current(ctx context.Context, coords weather.Coordinates) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrWeatherFetch)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", formatCoord(coords.Lat))
		values.Set("lon", formatCoord(coords.Lon))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		if p.lang != "" {
			values.Set("lang", p.lang)
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("%w: %s: %v", weather.ErrWeatherFetch, p.name, err)
	}
	defer resp.Body.Close()

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("%w: %s: decode: %v", weather.ErrWeatherFetch, p.name, err)
	}
	if len(payload.Weather) == 0 {
		return weather.Snapshot{}, fmt.Errorf("%w: %s: response has no weather entries", weather.ErrWeatherFetch, p.name)
	}

	fetched := p.now().UTC()
	if payload.Dt > 0 {
		fetched = time.Unix(payload.Dt, 0).UTC()
	}

	return weather.Normalize(weather.Snapshot{
		PlaceID:     payload.ID,
		Name:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: weather.RoundTemperature(payload.Main.Temp),
		Description: payload.Weather[0].Description,
		Icon:        payload.Weather[0].Icon,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		// Report the coordinates that were asked for, not the station's.
		Coords:    coords,
		FetchedAt: fetched,
	}, p.now()), nil
}

// Search resolves a place name through the direct geocoding endpoint (max 5 hits).
func (p *OpenWeatherProvider) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", query)
		values.Set("limit", "5")
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s?%s", p.geoURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name+"-geo", p.httpCfg, p.geoCircuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("openweather geocoding: %w", err)
	}
	defer resp.Body.Close()

	var candidates []weather.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("openweather geocoding: decode: %w", err)
	}
	return candidates, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
