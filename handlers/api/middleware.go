package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SessionMiddleware requires an authenticated browser session. Pages redirect
// to the login form; API and HTMX requests get a 401.
func SessionMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return deny(c)
		}

		if sess.Get("authenticated") != true {
			return deny(c)
		}

		if email, ok := sess.Get("email").(string); ok {
			c.Locals("email", email)
		}

		return c.Next()
	}
}

func deny(c *fiber.Ctx) error {
	if c.Get("HX-Request") != "" || strings.HasPrefix(c.Path(), "/api") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not signed in",
		})
	}
	return c.Redirect("/login")
}
