package web

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/dynamic-shelf-pricer/console/internal/view"
	logx "github.com/dynamic-shelf-pricer/console/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type handlers struct {
	ctrl *view.Controller
	opts Options
}

func (h *handlers) index(c *fiber.Ctx) error {
	state, err := h.ctrl.Open(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := view.Render(&buf, state, h.opts.Render); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *handlers) state(c *fiber.Ctx) error {
	state, err := h.ctrl.State(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (h *handlers) updateContext(c *fiber.Ctx) error {
	if _, err := h.ctrl.SetFields(c.UserContext(), sessionID(c), formFields(c)); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// recommend applies the form submitted with the button, then asks for a price.
// Browsers get a redirect whatever the outcome; a failed call is only logged.
// Clients asking for JSON get the recommendation or the error.
func (h *handlers) recommend(c *fiber.Ctx) error {
	sid := sessionID(c)
	productID, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if fields := formFields(c); len(fields) > 0 {
		if _, err := h.ctrl.SetFields(c.UserContext(), sid, fields); err != nil {
			return err
		}
	}

	rec, err := h.ctrl.Recommend(c.UserContext(), sid, productID)
	if wantsJSON(c) {
		if err != nil {
			return err
		}
		return c.JSON(rec)
	}
	if err != nil {
		logx.Error().Err(err).Str("session", sid).Str("product_id", productID).Msg("recommendation failed")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *handlers) reset(c *fiber.Ctx) error {
	if err := h.ctrl.Close(c.UserContext(), sessionID(c)); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// formFields collects url-encoded form values. A repeated name keeps its last
// value, which is how the hidden promo_flag=false is overridden by the checkbox.
func formFields(c *fiber.Ctx) map[string]string {
	fields := map[string]string{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})
	return fields
}

func wantsJSON(c *fiber.Ctx) bool {
	accept := c.Get(fiber.HeaderAccept)
	return strings.Contains(accept, fiber.MIMEApplicationJSON) && !strings.Contains(accept, fiber.MIMETextHTML)
}
