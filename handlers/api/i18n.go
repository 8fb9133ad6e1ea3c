package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// I18nHandler handles i18n-related requests
type I18nHandler struct{}

// GetTranslations returns translations for the client-side JavaScript
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")
	if lang == "" {
		lang = "en"
	}

	// Only allow supported languages
	if lang != "en" && lang != "hi" {
		lang = "en"
	}

	localizer := utils.GetLocalizer(lang)

	// Common translation keys needed by the page scripts
	translations := map[string]string{
		"auth_required":     utils.T(localizer, "auth_required"),
		"popup_blocked":     utils.T(localizer, "popup_blocked"),
		"search_no_results": utils.T(localizer, "search_no_results"),
		"search_loading":    utils.T(localizer, "search_loading"),
		"session_checking":  utils.T(localizer, "session_checking"),
		"login_failed":      utils.T(localizer, "login_failed"),
		"error_network":     utils.T(localizer, "error_network"),
	}

	return c.JSON(translations)
}
