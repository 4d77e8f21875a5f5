package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-favorites/internal/weather"
)

var flagYes bool

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favorite locations",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite locations",
	RunE:  runFavoritesList,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Add or remove the location's current weather from favorites",
	RunE:  runFavoritesToggle,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesRefreshCmd = &cobra.Command{
	Use:   "refresh <id>",
	Short: "Re-fetch weather for a favorite and update it",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRefresh,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all favorites and settings",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(clearCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesToggleCmd, favoritesRemoveCmd, favoritesRefreshCmd)

	addCoordFlags(favoritesToggleCmd)
	clearCmd.Flags().BoolVar(&flagYes, "yes", false, "confirm deleting all data")
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	favs := app.store.List(cmd.Context())
	out := cmd.OutOrStdout()
	if len(favs) == 0 {
		fmt.Fprintln(out, "No favorite locations")
		return nil
	}

	for _, f := range favs {
		fmt.Fprintf(out, "%s  %s, %s  %d°C  %s\n", f.ID, f.Name, f.Country, f.Temperature, weather.Capitalize(f.Description))
		fmt.Fprintf(out, "    added %s", f.AddedAt.Local().Format("2006-01-02 15:04"))
		if f.LastUpdated != nil {
			fmt.Fprintf(out, ", updated %s", f.LastUpdated.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	snap, err := fetchForFlags(cmd)
	if err != nil {
		return fmt.Errorf("failed to fetch weather: %w", err)
	}

	res, err := app.coordinator.ToggleFavorite(cmd.Context(), snap)
	if err != nil {
		return fmt.Errorf("failed to update favorites: %w", err)
	}

	if res.IsFavorite {
		fmt.Fprintf(cmd.OutOrStdout(), "%s added to favorites (%s)\n", snap.Name, res.Favorite.ID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s removed from favorites\n", snap.Name)
	}
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	if err := app.store.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Favorite removed")
	return nil
}

func runFavoritesRefresh(cmd *cobra.Command, args []string) error {
	fav, snap, err := app.coordinator.RefreshFavoriteByID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to refresh favorite: %w", err)
	}
	printSnapshot(cmd, snap)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated favorite %s\n", fav.ID)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !flagYes {
		return fmt.Errorf("refusing to delete all data without --yes")
	}
	if err := app.store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
	return nil
}
