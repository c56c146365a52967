package web

import (
	"time"

	logx "github.com/dynamic-shelf-pricer/console/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sessionLocal = "session_id"

// sessionCookie assigns every browser a session id and keeps it in a cookie.
func sessionCookie(name string, maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(name)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			setSessionCookie(c, name, id, maxAge)
		}
		c.Locals(sessionLocal, id)
		return c.Next()
	}
}

func setSessionCookie(c *fiber.Ctx, name, id string, maxAge time.Duration) {
	cookie := &fiber.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge / time.Second)
	}
	c.Cookie(cookie)
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocal).(string)
	return id
}

// requestLogger logs one line per request through zerolog.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusFor(err)
		}
		event := logx.Info()
		if status >= fiber.StatusInternalServerError {
			event = logx.Error()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("session", sessionID(c)).
			Msg("request")
		return err
	}
}
