package weather

import (
	"context"
	"errors"
)

// ErrWeatherFetch wraps every failure to obtain a snapshot from a provider:
// transport errors, non-2xx responses and undecodable payloads alike.
var ErrWeatherFetch = errors.New("weather fetch failed")

// Provider abstracts a current-weather source (e.g. OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Current(ctx context.Context, coords Coordinates) (Snapshot, error)
}

// Searcher resolves a free-text place name into candidate locations.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}
