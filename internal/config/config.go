package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-favorites/internal/weather"
)

const (
	ProviderOpenWeather = "openweather"
	ProviderWeatherAPI  = "weatherapi"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string // Google; empty disables the fallback searcher

	// Provider selects the current-weather backend.
	Provider string
	// Lang is passed to providers for localized descriptions.
	Lang string

	HTTPTimeout time.Duration
	// ProviderMaxRetries is the retry budget per provider call; 0 means no retry.
	ProviderMaxRetries int
	SearchCacheTTL     time.Duration

	DBPath string

	// DeviceCoords is the configured device position; nil when unknown.
	DeviceCoords *weather.Coordinates

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.Provider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderOpenWeather))
	if cfg.Provider != ProviderOpenWeather && cfg.Provider != ProviderWeatherAPI {
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q", cfg.Provider)
	}
	cfg.Lang = getenvDefault("WEATHER_LANG", "pl")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)
	if cfg.ProviderMaxRetries < 0 {
		return nil, fmt.Errorf("PROVIDER_MAX_RETRIES must not be negative")
	}

	ttl, err := time.ParseDuration(getenvDefault("SEARCH_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_CACHE_TTL: %w", err)
	}
	cfg.SearchCacheTTL = ttl

	cfg.DBPath = getenvDefault("DB_PATH", "weather-favorites.db")
	cfg.Port = getenvDefault("PORT", "8080")

	coords, err := loadDeviceCoords()
	if err != nil {
		return nil, err
	}
	cfg.DeviceCoords = coords

	return cfg, nil
}

func loadDeviceCoords() (*weather.Coordinates, error) {
	latStr := os.Getenv("LOCATION_LAT")
	lonStr := os.Getenv("LOCATION_LON")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, fmt.Errorf("LOCATION_LAT and LOCATION_LON must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid LOCATION_LAT %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid LOCATION_LON %q", lonStr)
	}
	return &weather.Coordinates{Lat: lat, Lon: lon}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
