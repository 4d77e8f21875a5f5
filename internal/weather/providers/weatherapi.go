package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-favorites/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	lang    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, apiKey, lang string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		lang:    lang,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: cfg,
		circuit: newCircuitBreaker("weatherapi"),
		now:     time.Now,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Current(ctx context.Context, coords weather.Coordinates) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("%w: weatherapi api key is not configured", weather.ErrWeatherFetch)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "lat,lon".
		values.Set("q", formatCoord(coords.Lat)+","+formatCoord(coords.Lon))
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

	var payload struct {
		Location struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"location"`
		Current struct {
			LastUpdatedEpoch int64   `json:"last_updated_epoch"`
			TempC            float64 `json:"temp_c"`
			Humidity         float64 `json:"humidity"`
			WindKph          float64 `json:"wind_kph"`
			PressureMb       float64 `json:"pressure_mb"`
			Condition        struct {
				Text string `json:"text"`
				Icon string `json:"icon"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("%w: %s: decode: %v", weather.ErrWeatherFetch, p.name, err)
	}

	fetched := p.now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		fetched = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	icon := payload.Current.Condition.Icon
	if strings.HasPrefix(icon, "//") {
		icon = "https:" + icon
	}

	return weather.Normalize(weather.Snapshot{
		Name:        payload.Location.Name,
		Country:     payload.Location.Country,
		Temperature: weather.RoundTemperature(payload.Current.TempC),
		Description: payload.Current.Condition.Text,
		Icon:        icon,
		Humidity:    payload.Current.Humidity,
		Pressure:    payload.Current.PressureMb,
		// Convert wind from kph to m/s.
		WindSpeed: payload.Current.WindKph / 3.6,
		Coords:    coords,
		Condition: weather.ConditionFromText(payload.Current.Condition.Text),
		FetchedAt: fetched,
	}, p.now()), nil
}
