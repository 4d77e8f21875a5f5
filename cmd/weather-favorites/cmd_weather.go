package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-favorites/internal/favorites"
	"github.com/i474232898/weather-favorites/internal/weather"
)

var (
	flagLat float64
	flagLon float64
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show current weather at a coordinate or the device position",
	Long: `Show current weather. Without --lat/--lon the device position is used,
falling back to Warsaw when it is unknown.`,
	RunE: runCurrent,
}

var searchCmd = &cobra.Command{
	Use:   "search <place>",
	Short: "Search locations by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(searchCmd)
	addCoordFlags(currentCmd)
}

func addCoordFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&flagLat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&flagLon, "lon", 0, "longitude")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
}

// fetchForFlags fetches weather at --lat/--lon when given, else at the device position.
func fetchForFlags(cmd *cobra.Command) (weather.Snapshot, error) {
	if cmd.Flags().Changed("lat") {
		return app.coordinator.RefreshCurrent(cmd.Context(), weather.Coordinates{Lat: flagLat, Lon: flagLon})
	}
	return app.coordinator.CurrentWeather(cmd.Context())
}

func runCurrent(cmd *cobra.Command, args []string) error {
	snap, err := fetchForFlags(cmd)
	if err != nil {
		return fmt.Errorf("failed to fetch weather: %w", err)
	}

	printSnapshot(cmd, snap)
	if favorites.IsFavorite(snap, app.coordinator.Favorites(cmd.Context())) {
		fmt.Fprintln(cmd.OutOrStdout(), "★ in favorites")
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	candidates, err := app.searcher.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("failed to search %q: %w", query, err)
	}
	if len(candidates) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No locations found for %q\n", query)
		return nil
	}
	for _, c := range candidates {
		name := c.Name
		if c.State != "" {
			name += ", " + c.State
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)  %.4f, %.4f\n", name, c.Country, c.Lat, c.Lon)
	}
	return nil
}

func printSnapshot(cmd *cobra.Command, s weather.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %s\n", s.Name, s.Country)
	fmt.Fprintf(out, "  %d°C  %s\n", s.Temperature, weather.Capitalize(s.Description))
	fmt.Fprintf(out, "  Humidity: %.0f%%  Pressure: %.0f hPa  Wind: %.1f m/s\n", s.Humidity, s.Pressure, s.WindSpeed)
	fmt.Fprintf(out, "  At: %.4f, %.4f\n", s.Coords.Lat, s.Coords.Lon)
}
