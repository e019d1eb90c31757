package server

import (
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AssistantSuggest handles POST /api/assistant/suggest. A malformed or empty
// request is rejected before any call to the text generation provider; the
// response carries sanitized HTML ready for the editor.
func (s *Server) AssistantSuggest(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		middleware.AssistantRequests.WithLabelValues("bad_request").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Text) == "" {
		middleware.AssistantRequests.WithLabelValues("bad_request").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Text is required"))
	}

	html, err := s.assistant.Suggest(c.Context(), req.Text)
	if err != nil {
		middleware.AssistantRequests.WithLabelValues("error").Inc()
		middleware.Logger.ErrorContext(c.UserContext(), "assistant suggestion failed", "error", err)
		return respondError(c, err)
	}

	middleware.AssistantRequests.WithLabelValues("ok").Inc()
	return c.JSON(fiber.Map{"suggestion": html})
}
