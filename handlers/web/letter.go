// handlers/web/letter.go
package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/auth"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/config"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/letter"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/search"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// LetterHandler serves the letter preview and the printable download. Both
// actions pass the authorization gate on every invocation.
type LetterHandler struct {
	config     *config.Config
	controller *auth.Controller
	engine     *search.Engine
	pipeline   *letter.Pipeline
	authWeb    *AuthHandler
}

// NewLetterHandler creates a new letter handler
func NewLetterHandler(cfg *config.Config, controller *auth.Controller, engine *search.Engine, pipeline *letter.Pipeline, authWeb *AuthHandler) *LetterHandler {
	return &LetterHandler{
		config:     cfg,
		controller: controller,
		engine:     engine,
		pipeline:   pipeline,
		authWeb:    authWeb,
	}
}

// target resolves which record the action is for: the viewer's own record
// when ?mine=1, otherwise the current search selection
func (h *LetterHandler) target(c *fiber.Ctx, viewer models.Identity) *models.Member {
	if c.Query("mine") == "1" {
		return viewer.Member
	}
	return h.engine.State().Selected
}

// viewer returns the process identity, degraded to unauthenticated when the
// requesting browser is not the signed-in operator's
func (h *LetterHandler) viewer(c *fiber.Ctx) models.Identity {
	identity := h.controller.Current()
	if !identity.Authenticated {
		return identity
	}
	if h.authWeb.SessionEmail(c) != identity.Member.Email {
		return models.Identity{}
	}
	return identity
}

// refuse renders the sign-in prompt into the requesting surface. The action
// performs no rendering or export work past this point.
func (h *LetterHandler) refuse(c *fiber.Ctx) error {
	localizer, _ := c.Locals("localizer").(*i18n.Localizer)
	return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{
		"Error": utils.T(localizer, "auth_required"),
		"Code":  fiber.StatusForbidden,
	})
}

// HandlePreview renders the letter inline for the preview modal
func (h *LetterHandler) HandlePreview(c *fiber.Ctx) error {
	viewer := h.viewer(c)
	target := h.target(c, viewer)
	if target == nil {
		return utils.NotFoundError("No member selected", nil)
	}
	if !auth.CanAccess(viewer, target) {
		return h.refuse(c)
	}

	job, err := h.pipeline.Assemble(c.Context(), *target, time.Now())
	if err != nil {
		return err
	}

	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(job.Document)
}

// HandleDownload serves the printable letter. The document carries the
// auto-print script, so the popup the page opened performs the
// load-settle-print-close sequence itself.
func (h *LetterHandler) HandleDownload(c *fiber.Ctx) error {
	viewer := h.viewer(c)
	target := h.target(c, viewer)
	if target == nil {
		return utils.NotFoundError("No member selected", nil)
	}
	if !auth.CanAccess(viewer, target) {
		return h.refuse(c)
	}

	job, err := h.pipeline.Assemble(c.Context(), *target, time.Now())
	if err != nil {
		return err
	}

	utils.Log.Info("Letter download for %s (job %s)", target.RegNo, job.ID)

	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(letter.InjectPrintScript(job.Document, h.config.SettleDelay()))
}
