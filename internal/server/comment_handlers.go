package server

import (
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/blogs/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	blogID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	comments, err := s.commentSvc.ListComments(c.Context(), blogID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments, "count": len(comments)})
}

// CreateComment handles POST /api/blogs/:id/comments. A body that is empty
// after trimming is accepted and dropped: the caller is redirected back to
// the blog with nothing created.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	blogID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentSvc.AddComment(c.Context(), service.AddCommentInput{
		UserID:  currentUserID(c),
		BlogID:  blogID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	if comment == nil {
		return c.Redirect(fmt.Sprintf("/blogs/%d", blogID), fiber.StatusSeeOther)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id. Unlike blog deletion this
// is a hard refusal for non-staff callers, authors included.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	blogID, err := s.commentSvc.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted", "blog_id": blogID})
}
