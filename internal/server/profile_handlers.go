package server

import (
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type profileResponse struct {
	User     *models.User `json:"user"`
	Profile  profileBody  `json:"profile"`
	Initials string       `json:"initials"`
}

type profileBody struct {
	ID        uint   `json:"id"`
	AvatarURL string `json:"avatar_url"`
}

func buildProfileResponse(user *models.User, profile *models.Profile) profileResponse {
	profile.User = *user
	return profileResponse{
		User: user,
		Profile: profileBody{
			ID:        profile.ID,
			AvatarURL: profile.AvatarURL,
		},
		Initials: profile.Initials(),
	}
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("User", userID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	profile, err := s.userRepo.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(buildProfileResponse(user, profile))
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	profile, err := s.userRepo.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.FirstName != nil || req.LastName != nil {
		if err := s.userRepo.Update(c.Context(), user); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
		if err := s.userRepo.UpdateProfile(c.Context(), profile); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	cache.InvalidateProfile(c.Context(), userID)
	return c.JSON(buildProfileResponse(user, profile))
}

// GetUserProfile handles GET /api/users/:id with a short-lived cache in
// front of the lookup.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var resp profileResponse
	err = cache.Aside(c.Context(), cache.ProfileKey(userID), &resp, cache.ProfileTTL, func() error {
		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return err
		}
		profile, err := s.userRepo.GetProfile(c.Context(), userID)
		if err != nil {
			return err
		}
		resp = buildProfileResponse(user, profile)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("User", userID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(resp)
}
