// Package service implements the business rules on top of the repositories.
package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repository"

	"github.com/microcosm-cc/bluemonday"
)

// stripMarkup removes every tag so validation can judge the text content of
// rich-text fields.
var stripMarkup = bluemonday.StrictPolicy()

// UserLookup resolves a user ID to the full user record for policy checks.
type UserLookup func(ctx context.Context, userID uint) (*models.User, error)

type BlogService struct {
	blogRepo repository.BlogRepository
	getUser  UserLookup
}

type CreateBlogInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
}

type UpdateBlogInput struct {
	UserID   uint
	BlogID   uint
	Title    string
	Content  string
	ImageURL string
}

type DeleteBlogInput struct {
	UserID uint
	BlogID uint
}

// ToggleLikeResult reports the membership state after the toggle plus the
// total member count.
type ToggleLikeResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// ToggleBookmarkResult reports only the membership state.
type ToggleBookmarkResult struct {
	Bookmarked bool `json:"bookmarked"`
}

func NewBlogService(blogRepo repository.BlogRepository, getUser UserLookup) *BlogService {
	return &BlogService{
		blogRepo: blogRepo,
		getUser:  getUser,
	}
}

const (
	maxTitleLen   = 255
	maxContentLen = 50000
)

// validateBlogText enforces the invariant that title and content are
// non-empty after stripping markup.
func validateBlogText(title, content string) error {
	if strings.TrimSpace(stripMarkup.Sanitize(title)) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 255 characters)")
	}
	if strings.TrimSpace(stripMarkup.Sanitize(content)) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	if err := validateBlogText(in.Title, in.Content); err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}

	return s.blogRepo.GetByID(ctx, blog.ID, in.UserID)
}

func (s *BlogService) GetBlog(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error) {
	return s.blogRepo.GetByID(ctx, id, currentUserID)
}

func (s *BlogService) ListBlogs(ctx context.Context, currentUserID uint) ([]*models.Blog, error) {
	return s.blogRepo.List(ctx, currentUserID)
}

// LoadMore serves the incremental "load more" UI: a stateless slice of the
// newest-first sequence, empty when the offset runs past the end.
func (s *BlogService) LoadMore(ctx context.Context, offset int, currentUserID uint) ([]*models.Blog, error) {
	return s.blogRepo.LoadMore(ctx, offset, currentUserID)
}

// RecentBlogs returns the fixed-size home page listing.
func (s *BlogService) RecentBlogs(ctx context.Context, currentUserID uint) ([]*models.Blog, error) {
	return s.blogRepo.Recent(ctx, currentUserID)
}

// SearchBlogs filters by title substring; an empty query returns everything.
func (s *BlogService) SearchBlogs(ctx context.Context, query string, currentUserID uint) ([]*models.Blog, error) {
	return s.blogRepo.Search(ctx, strings.TrimSpace(query), currentUserID)
}

func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, in.BlogID, in.UserID)
	if err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditBlog(user, blog) {
		return nil, models.NewUnauthorizedError("You are not allowed to edit this blog")
	}

	if in.Title != "" {
		blog.Title = in.Title
	}
	if in.Content != "" {
		blog.Content = in.Content
	}
	if in.ImageURL != "" {
		blog.ImageURL = in.ImageURL
	}
	if err := validateBlogText(blog.Title, blog.Content); err != nil {
		return nil, err
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, in DeleteBlogInput) error {
	blog, err := s.blogRepo.GetByID(ctx, in.BlogID, in.UserID)
	if err != nil {
		return err
	}

	user, err := s.getUser(ctx, in.UserID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteBlog(user, blog) {
		return models.NewUnauthorizedError("You are not allowed to delete this blog")
	}

	return s.blogRepo.Delete(ctx, in.BlogID)
}

// ToggleLike flips the caller's like membership and reports the new state
// with the total count.
func (s *BlogService) ToggleLike(ctx context.Context, userID, blogID uint) (*ToggleLikeResult, error) {
	if _, err := s.blogRepo.GetByID(ctx, blogID, 0); err != nil {
		return nil, err
	}
	liked, count, err := s.blogRepo.ToggleLike(ctx, userID, blogID)
	if err != nil {
		return nil, err
	}
	return &ToggleLikeResult{Liked: liked, Count: count}, nil
}

// ToggleBookmark flips the caller's bookmark membership.
func (s *BlogService) ToggleBookmark(ctx context.Context, userID, blogID uint) (*ToggleBookmarkResult, error) {
	if _, err := s.blogRepo.GetByID(ctx, blogID, 0); err != nil {
		return nil, err
	}
	bookmarked, err := s.blogRepo.ToggleBookmark(ctx, userID, blogID)
	if err != nil {
		return nil, err
	}
	return &ToggleBookmarkResult{Bookmarked: bookmarked}, nil
}
