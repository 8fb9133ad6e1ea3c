package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/auth"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/directory"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/search"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// SearchHandler serves the suggestion dropdown and selection resolution
type SearchHandler struct {
	engine     *search.Engine
	listing    *directory.Cache
	controller *auth.Controller
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(engine *search.Engine, listing *directory.Cache, controller *auth.Controller) *SearchHandler {
	return &SearchHandler{
		engine:     engine,
		listing:    listing,
		controller: controller,
	}
}

// SearchRequest carries the raw query text
type SearchRequest struct {
	Query string `json:"query"`
}

// SelectRequest carries a clicked suggestion
type SelectRequest struct {
	Name string `json:"name"`
}

// refresh pushes the latest listing and identity into the engine so the
// recomputation reflects the newest of every input
func (h *SearchHandler) refresh(c *fiber.Ctx) {
	members, err := h.listing.Members(c.Context())
	if err != nil {
		utils.Log.Warn("Suggestions computed without a member listing: %v", err)
	}
	h.engine.SetMembers(members)
	h.engine.SetIdentity(h.controller.Current())
}

// HandleSearch updates the query text and returns the recomputed state
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request", err)
	}

	h.refresh(c)
	state := h.engine.SetQuery(req.Query)

	return c.JSON(state)
}

// HandleSelect resolves a suggestion to its full record
func (h *SearchHandler) HandleSelect(c *fiber.Ctx) error {
	var req SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request", err)
	}

	h.refresh(c)
	state := h.engine.SelectSuggestion(req.Name)

	return c.JSON(state)
}

// HandleMember returns the currently selected member for the card, or 404
// when nothing is selected
func (h *SearchHandler) HandleMember(c *fiber.Ctx) error {
	selected := h.engine.State().Selected
	if selected == nil {
		return utils.NotFoundError("No member selected", nil)
	}
	return c.JSON(selected)
}

// HandleSession returns the current identity for the auth area
func (h *SearchHandler) HandleSession(c *fiber.Ctx) error {
	return c.JSON(h.controller.Current())
}
