package providers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/patrickmn/go-cache"

	"github.com/i474232898/weather-favorites/internal/metrics"
	"github.com/i474232898/weather-favorites/internal/weather"
)

// GoogleSearcher resolves place names through the Google Geocoding API.
// The geocoder package keeps its key in a package variable, so only one
// key can be active per process.
type GoogleSearcher struct{}

func NewGoogleSearcher(apiKey string) *GoogleSearcher {
	geocoder.ApiKey = apiKey
	return &GoogleSearcher{}
}

func (g *GoogleSearcher) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	if err != nil {
		metrics.ObserveProviderRequest("google-geocoder", "error")
		return nil, fmt.Errorf("google geocoding: %w", err)
	}
	metrics.ObserveProviderRequest("google-geocoder", "ok")

	c := weather.Candidate{Name: query, Lat: loc.Latitude, Lon: loc.Longitude}
	if addrs, err := geocoder.GeocodingReverse(loc); err == nil && len(addrs) > 0 {
		if addrs[0].City != "" {
			c.Name = addrs[0].City
		}
		c.Country = addrs[0].Country
		c.State = addrs[0].State
	}
	return []weather.Candidate{c}, nil
}

// CachingSearcher asks each searcher in order until one returns hits, and
// memoizes results per normalized query.
type CachingSearcher struct {
	searchers []weather.Searcher
	cache     *cache.Cache
}

func NewCachingSearcher(ttl time.Duration, searchers ...weather.Searcher) *CachingSearcher {
	return &CachingSearcher{
		searchers: searchers,
		cache:     cache.New(ttl, 2*ttl),
	}
}

func (s *CachingSearcher) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if cached, found := s.cache.Get(key); found {
		return append([]weather.Candidate(nil), cached.([]weather.Candidate)...), nil
	}

	var lastErr error
	for _, searcher := range s.searchers {
		candidates, err := searcher.Search(ctx, query)
		if err != nil {
			log.Printf("ERROR: search: %T failed for %q: %v", searcher, query, err)
			lastErr = err
			continue
		}
		if len(candidates) == 0 {
			continue
		}
		s.cache.Set(key, append([]weather.Candidate(nil), candidates...), cache.DefaultExpiration)
		return candidates, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return []weather.Candidate{}, nil
}
