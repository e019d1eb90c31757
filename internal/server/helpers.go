package server

import (
	"context"
	"errors"
	"strconv"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "inkwell-api"
	tokenAudience = "inkwell-client"
	tokenTTL      = 7 * 24 * time.Hour
)

const revokedTokenKeyPrefix = "revoked_token:"

// currentUserID returns the authenticated user's ID placed in locals by
// AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// parseID parses a positive numeric route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// parseOffset parses the load-more offset query parameter, defaulting to 0
// and rejecting negatives.
func parseOffset(c *fiber.Ctx) (int, error) {
	raw := c.Query("offset", "0")
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, models.NewValidationError("Invalid offset")
	}
	return offset, nil
}

// statusForError maps application error codes onto HTTP statuses. Bare
// record-not-found errors from the store count as 404.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.StatusNotFound
		}
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusForbidden
	case models.CodeExternalService:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}

// isTokenRevoked reports whether the JTI has been blacklisted by a logout.
// When Redis is unavailable the token is treated as valid.
func (s *Server) isTokenRevoked(ctx context.Context, jti string) bool {
	if s.redis == nil {
		return false
	}
	n, err := s.redis.Exists(ctx, revokedTokenKeyPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (s *Server) revokeToken(ctx context.Context, jti string) error {
	if s.redis == nil || jti == "" {
		return nil
	}
	return s.redis.Set(ctx, revokedTokenKeyPrefix+jti, "1", tokenTTL).Err()
}
