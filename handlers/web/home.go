// handlers/web/home.go
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/auth"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/config"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/directory"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// HomeHandler renders the member search page
type HomeHandler struct {
	store      *session.Store
	config     *config.Config
	listing    *directory.Cache
	controller *auth.Controller
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(store *session.Store, cfg *config.Config, listing *directory.Cache, controller *auth.Controller) *HomeHandler {
	return &HomeHandler{
		store:      store,
		config:     cfg,
		listing:    listing,
		controller: controller,
	}
}

// HandleHome renders the search page with the member count and the viewer's
// signed-in state
func (h *HomeHandler) HandleHome(c *fiber.Ctx) error {
	members, err := h.listing.Members(c.Context())
	if err != nil {
		utils.Log.Warn("Home rendered without a member listing: %v", err)
	}

	identity := h.controller.Current()

	var token interface{}
	if sess, serr := h.store.Get(c); serr == nil {
		token = sess.Get("token")
	}

	viewModel := fiber.Map{
		"Lang":          c.Locals("lang"),
		"TotalMembers":  len(members),
		"Tenure":        h.config.Letter.Tenure,
		"Authenticated": identity.Authenticated,
		"Loading":       identity.Loading,
		"Token":         token,
		"CSRFToken":     c.Locals("csrf"),
	}
	if identity.Member != nil {
		viewModel["MemberName"] = identity.Member.Name
	}

	return c.Render("index", viewModel)
}
