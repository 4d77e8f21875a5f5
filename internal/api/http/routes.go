package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-favorites/internal/favorites"
	"github.com/i474232898/weather-favorites/internal/store"
	"github.com/i474232898/weather-favorites/internal/weather"
)

var validate = validator.New()

// Services are the collaborators the handlers call into.
type Services struct {
	Coordinator *favorites.Coordinator
	Store       *store.FavoritesStore
	Searcher    weather.Searcher
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		coords, located, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var snap weather.Snapshot
		if located {
			snap, err = svc.Coordinator.RefreshCurrent(c.UserContext(), coords)
		} else {
			snap, err = svc.Coordinator.CurrentWeather(c.UserContext())
		}
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{
			"weather":    snap,
			"isFavorite": favorites.IsFavorite(snap, svc.Coordinator.Favorites(c.UserContext())),
		})
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		q := searchQuery{Q: c.Query("q")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if svc.Searcher == nil {
			return fiber.NewError(fiber.StatusNotImplemented, "location search is not configured")
		}

		candidates, err := svc.Searcher.Search(c.UserContext(), q.Q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "location search failed")
		}
		return c.JSON(candidates)
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		return c.JSON(svc.Store.List(c.UserContext()))
	})

	v1.Post("/favorites/toggle", func(c *fiber.Ctx) error {
		var snap weather.Snapshot
		if err := c.BodyParser(&snap); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid weather snapshot body")
		}
		if err := validate.Struct(snap); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := svc.Coordinator.ToggleFavorite(c.UserContext(), snap)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(res)
	})

	v1.Post("/favorites/:id/refresh", func(c *fiber.Ctx) error {
		fav, snap, err := svc.Coordinator.RefreshFavoriteByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(fiber.Map{
			"favorite": fav,
			"weather":  snap,
		})
	})

	v1.Delete("/favorites/:id", func(c *fiber.Ctx) error {
		if err := svc.Store.Remove(c.UserContext(), c.Params("id")); err != nil {
			return toHTTPError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Delete("/data", func(c *fiber.Ctx) error {
		if err := svc.Store.Clear(c.UserContext()); err != nil {
			return toHTTPError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(svc.Store.Settings(c.UserContext()))
	})

	v1.Put("/settings", func(c *fiber.Ctx) error {
		settings := map[string]any{}
		if err := c.BodyParser(&settings); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "settings must be a JSON object")
		}
		if err := svc.Store.SaveSettings(c.UserContext(), settings); err != nil {
			return toHTTPError(err)
		}
		return c.JSON(settings)
	})
}

// toHTTPError maps domain errors onto HTTP statuses.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, store.ErrFavoriteNotFound):
		return fiber.NewError(fiber.StatusNotFound, "favorite not found")
	case errors.Is(err, weather.ErrWeatherFetch):
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	case errors.Is(err, store.ErrStorage):
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update favorites")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

type searchQuery struct {
	Q string `validate:"required,min=2"`
}

// coordsQuery holds the optional lat/lon query parameters.
type coordsQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// parseCoordsQuery returns located=false when neither lat nor lon is given.
func parseCoordsQuery(c *fiber.Ctx) (weather.Coordinates, bool, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		return weather.Coordinates{}, false, nil
	}
	if latStr == "" || lonStr == "" {
		return weather.Coordinates{}, false, errors.New("lat and lon must be given together")
	}

	var q coordsQuery
	var err error
	if q.Lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return weather.Coordinates{}, false, errors.New("lat must be a number")
	}
	if q.Lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return weather.Coordinates{}, false, errors.New("lon must be a number")
	}
	if err := validate.Struct(q); err != nil {
		return weather.Coordinates{}, false, err
	}
	return weather.Coordinates{Lat: q.Lat, Lon: q.Lon}, true, nil
}
