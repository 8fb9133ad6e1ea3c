// handlers/web/auth.go
package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/auth"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/config"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/handlers/api"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

type AuthHandler struct {
	store      *session.Store
	config     *config.Config
	controller *auth.Controller
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(store *session.Store, config *config.Config, controller *auth.Controller) *AuthHandler {
	return &AuthHandler{
		store:      store,
		config:     config,
		controller: controller,
	}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if sess.Get("authenticated") == true {
			return c.Redirect("/")
		}
	}
	return c.Render("login", fiber.Map{
		"Lang":      c.Locals("lang"),
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleLogin processes the login form. The password field is the member's
// registration number. On failure the form re-renders with an inline error
// and the entered email preserved.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	localizer, _ := c.Locals("localizer").(*i18n.Localizer)

	sess, err := h.store.Get(c)
	if err != nil {
		return c.Status(500).SendString("Session error")
	}

	email := strings.TrimSpace(c.FormValue("email"))
	regNo := strings.TrimSpace(c.FormValue("regNo"))

	if email == "" || regNo == "" {
		return c.Status(400).Render("login", fiber.Map{
			"Error":     utils.T(localizer, "login_fields_required"),
			"Email":     email,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	if err := h.controller.Login(c.Context(), email, regNo); err != nil {
		status := 401
		message := utils.T(localizer, "login_failed")
		if appErr, ok := err.(*utils.AppError); ok {
			status = appErr.Code
			utils.Log.Warn("Login rejected for %s: %v", email, appErr)
		}
		return c.Status(status).Render("login", fiber.Map{
			"Error":     message,
			"Email":     email,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	identity := h.controller.Current()
	if !identity.Authenticated {
		// Credentials were accepted but no directory profile exists. The
		// viewer stays unauthenticated and the gate will refuse letter
		// actions.
		return c.Redirect("/")
	}

	token, err := api.GenerateToken(identity.Member.Email, identity.Member.RegNo, h.config.JWT.Secret)
	if err != nil {
		return c.Status(500).Render("login", fiber.Map{
			"Error":     "Failed to create authentication token",
			"Email":     email,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	sess.Set("authenticated", true)
	sess.Set("email", identity.Member.Email)
	sess.Set("token", token)
	sess.SetExpiry(24 * time.Hour)

	if err := sess.Save(); err != nil {
		return c.Status(500).Render("login", fiber.Map{
			"Error":     "Failed to create session",
			"Email":     email,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	return c.Redirect("/")
}

// HandleLogout signs the member out and clears the browser session
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.controller.Logout(c.Context())

	sess, err := h.store.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			utils.Log.Warn("Failed to destroy session on logout: %v", err)
		}
	}

	return c.Redirect("/")
}

// SessionEmail returns the signed-in email recorded in the browser session,
// or an empty string
func (h *AuthHandler) SessionEmail(c *fiber.Ctx) string {
	sess, err := h.store.Get(c)
	if err != nil {
		return ""
	}
	email, _ := sess.Get("email").(string)
	return email
}
