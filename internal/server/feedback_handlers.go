package server

import (
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r *messageRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return models.NewValidationError("Name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return models.NewValidationError("Email is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return models.NewValidationError("Message is required")
	}
	return nil
}

// CreateFeedback handles POST /api/feedback
func (s *Server) CreateFeedback(c *fiber.Ctx) error {
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := req.validate(); err != nil {
		return respondError(c, err)
	}

	fb := &models.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := s.messageRepo.CreateFeedback(c.Context(), fb); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fb)
}

// CreateContactMessage handles POST /api/contact
func (s *Server) CreateContactMessage(c *fiber.Ctx) error {
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := req.validate(); err != nil {
		return respondError(c, err)
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := s.messageRepo.CreateContactMessage(c.Context(), msg); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
