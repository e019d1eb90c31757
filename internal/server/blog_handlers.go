package server

import (
	"errors"
	"fmt"
	"net/url"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBlogs handles GET /api/blogs
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)
	blogs, err := s.blogSvc.ListBlogs(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"blogs": blogs, "count": len(blogs)})
}

// GetRecentBlogs handles GET /api/blogs/recent
func (s *Server) GetRecentBlogs(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)
	blogs, err := s.blogSvc.RecentBlogs(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"blogs": blogs, "count": len(blogs)})
}

// LoadMoreBlogs handles GET /api/blogs/load-more?offset=N
func (s *Server) LoadMoreBlogs(c *fiber.Ctx) error {
	offset, err := parseOffset(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, _ := s.optionalUserID(c)
	blogs, err := s.blogSvc.LoadMore(c.Context(), offset, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"blogs": blogs, "count": len(blogs)})
}

// SearchBlogs handles GET /api/blogs/search?q=term
func (s *Server) SearchBlogs(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)
	blogs, err := s.blogSvc.SearchBlogs(c.Context(), c.Query("q"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"blogs": blogs, "count": len(blogs)})
}

// GetBlog handles GET /api/blogs/:id
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	userID, _ := s.optionalUserID(c)
	blog, err := s.blogSvc.GetBlog(c.Context(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blog)
}

// CreateBlog handles POST /api/blogs
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogSvc.CreateBlog(c.Context(), service.CreateBlogInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

// UpdateBlog handles PUT /api/blogs/:id. A caller who may not edit the blog
// is sent back to the detail page with a flash error instead of a hard
// rejection.
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogSvc.UpdateBlog(c.Context(), service.UpdateBlogInput{
		UserID:   currentUserID(c),
		BlogID:   id,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if isUnauthorized(err) {
			return redirectWithFlash(c, id, err)
		}
		return respondError(c, err)
	}
	return c.JSON(blog)
}

// DeleteBlog handles DELETE /api/blogs/:id with the same soft refusal as
// UpdateBlog.
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	err = s.blogSvc.DeleteBlog(c.Context(), service.DeleteBlogInput{
		UserID: currentUserID(c),
		BlogID: id,
	})
	if err != nil {
		if isUnauthorized(err) {
			return redirectWithFlash(c, id, err)
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Blog deleted"})
}

// ToggleLike handles POST /api/blogs/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	result, err := s.blogSvc.ToggleLike(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ToggleBookmark handles POST /api/blogs/:id/bookmark
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	result, err := s.blogSvc.ToggleBookmark(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func isUnauthorized(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeUnauthorized
}

func redirectWithFlash(c *fiber.Ctx, blogID uint, err error) error {
	location := fmt.Sprintf("/blogs/%d?error=%s", blogID, url.QueryEscape(err.Error()))
	return c.Redirect(location, fiber.StatusSeeOther)
}
