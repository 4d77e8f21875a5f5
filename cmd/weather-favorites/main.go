package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-favorites/internal/config"
	"github.com/i474232898/weather-favorites/internal/favorites"
	"github.com/i474232898/weather-favorites/internal/location"
	"github.com/i474232898/weather-favorites/internal/store"
	"github.com/i474232898/weather-favorites/internal/weather"
	"github.com/i474232898/weather-favorites/internal/weather/providers"
)

var (
	flagMemory bool
	flagDBPath string

	app *application
)

var rootCmd = &cobra.Command{
	Use:   "weather-favorites",
	Short: "Current weather and favorite locations",
	Long: `weather-favorites fetches current weather for a coordinate or a searched
city and keeps a locally persisted list of favorite locations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagDBPath != "" {
			cfg.DBPath = flagDBPath
		}
		app, err = newApplication(cfg, flagMemory)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil {
			return app.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagMemory, "memory", false, "keep favorites in memory only")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "path to the favorites database (overrides DB_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// application holds the wired components shared by every command.
type application struct {
	cfg         *config.AppConfig
	kv          store.KV
	store       *store.FavoritesStore
	coordinator *favorites.Coordinator
	searcher    weather.Searcher
}

func newApplication(cfg *config.AppConfig, memory bool) (*application, error) {
	var kv store.KV
	if memory {
		kv = store.NewMemoryKV()
	} else {
		sqlite, err := store.NewSQLiteKV(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open favorites database: %w", err)
		}
		kv = sqlite
	}
	favStore := store.NewFavoritesStore(kv)

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.DefaultHTTPConfig(&http.Client{Timeout: cfg.HTTPTimeout})
	httpCfg.Backoff.MaxRetries = cfg.ProviderMaxRetries

	openWeather := providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherAPIKey, cfg.Lang)

	var provider weather.Provider = openWeather
	if cfg.Provider == config.ProviderWeatherAPI {
		provider = providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherAPIKey, cfg.Lang)
	}
	log.Printf("INFO: using weather provider %s", provider.Name())

	searchers := []weather.Searcher{openWeather}
	if cfg.GeocoderAPIKey != "" {
		searchers = append(searchers, providers.NewGoogleSearcher(cfg.GeocoderAPIKey))
	}

	var locator location.Provider = location.Static{Coords: cfg.DeviceCoords}

	return &application{
		cfg:         cfg,
		kv:          kv,
		store:       favStore,
		coordinator: favorites.NewCoordinator(provider, favStore, locator),
		searcher:    providers.NewCachingSearcher(cfg.SearchCacheTTL, searchers...),
	}, nil
}

func (a *application) Close() error {
	return a.kv.Close()
}
