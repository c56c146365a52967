// Package web serves the pricing console page and its form actions.
package web

import (
	"errors"
	"time"

	errx "github.com/dynamic-shelf-pricer/console/internal/core/error"
	"github.com/dynamic-shelf-pricer/console/internal/view"
	logx "github.com/dynamic-shelf-pricer/console/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options configures the console app.
type Options struct {
	CookieName string
	SessionTTL time.Duration
	Render     view.RenderOptions
}

// NewApp wires the console routes onto a new Fiber app.
func NewApp(ctrl *view.Controller, opts Options) *fiber.App {
	if opts.CookieName == "" {
		opts.CookieName = "dsp_session"
	}

	// Immutable: session and product ids outlive the request as store keys.
	app := fiber.New(fiber.Config{
		AppName:               "dynamic-shelf-pricer",
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	h := &handlers{ctrl: ctrl, opts: opts}
	page := app.Group("/", sessionCookie(opts.CookieName, opts.SessionTTL))
	page.Get("/", h.index)
	page.Get("/state", h.state)
	page.Post("/context", h.updateContext)
	page.Post("/recommend/:id", h.recommend)
	page.Post("/reset", h.reset)

	return app
}

func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return errx.StatusOf(err)
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := errx.MessageOf(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message = fe.Message
	}
	if status >= fiber.StatusInternalServerError {
		logx.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}
