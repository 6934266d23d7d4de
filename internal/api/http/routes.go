package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-query/internal/store"
	"github.com/i474232898/weather-query/internal/weather"
)

// VersionHeader carries the dataset version a query was evaluated against.
const VersionHeader = "X-Dataset-Version"

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/query", func(c *fiber.Ctx) error {
		// The raw query string is needed: "date>=X" does not survive
		// key=value decoding.
		raw := string(c.Request().URI().QueryString())

		result, err := service.Query(raw)
		if result.Version != "" {
			c.Set(VersionHeader, result.Version)
		}
		if err != nil {
			return classify(err)
		}

		return c.JSON(result.Records)
	})

	app.Get("/dataset", func(c *fiber.Ctx) error {
		summary, err := service.Summary()
		if err != nil {
			return classify(err)
		}
		c.Set(VersionHeader, summary.Version)
		return c.JSON(summary)
	})
}

// classify maps service errors to HTTP errors for the central error handler.
func classify(err error) error {
	var (
		verr *weather.ValidationError
		nf   *weather.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Error())
	case errors.As(err, &nf):
		return fiber.NewError(fiber.StatusNotFound, "no results found")
	case errors.Is(err, store.ErrNotLoaded):
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather dataset not loaded")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to query weather data")
	}
}

// ErrorHandler renders errors as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
