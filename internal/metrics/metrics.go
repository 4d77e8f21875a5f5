// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weather_favorites",
		Name:      "provider_requests_total",
		Help:      "Outbound weather/geocoding provider requests by outcome.",
	}, []string{"provider", "outcome"})

	favoriteMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weather_favorites",
		Name:      "favorite_mutations_total",
		Help:      "Favorites store mutations by operation and outcome.",
	}, []string{"op", "outcome"})

	favoritesStored = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "weather_favorites",
		Name:      "favorites_stored",
		Help:      "Number of favorites after the last successful write.",
	})
)

// ObserveProviderRequest counts one provider round trip.
func ObserveProviderRequest(provider, outcome string) {
	providerRequests.WithLabelValues(provider, outcome).Inc()
}

// ObserveMutation counts one favorites store mutation.
func ObserveMutation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	favoriteMutations.WithLabelValues(op, outcome).Inc()
}

// SetFavoritesStored records the collection size after a write.
func SetFavoritesStored(n int) {
	favoritesStored.Set(float64(n))
}
