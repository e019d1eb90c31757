package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	blogRepo    repository.BlogRepository
	getUser     UserLookup
}

type AddCommentInput struct {
	UserID  uint
	BlogID  uint
	Content string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository, blogRepo repository.BlogRepository, getUser UserLookup) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
		getUser:     getUser,
	}
}

// AddComment attaches a comment to a blog. Content that is empty after
// trimming is a benign no-op: no record is created and no error is returned.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, nil
	}

	if _, err := s.blogRepo.GetByID(ctx, in.BlogID, 0); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		BlogID:  in.BlogID,
		UserID:  in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByBlog(ctx, blogID)
}

// DeleteComment removes a comment on behalf of a staff member and returns
// the parent blog ID so the caller can route back to the detail page.
// Non-staff callers are refused outright, comment authors included.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (uint, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return 0, err
	}

	user, err := s.getUser(ctx, in.UserID)
	if err != nil {
		return 0, err
	}
	if !policy.CanDeleteComment(user) {
		return 0, models.NewUnauthorizedError("Only staff can delete comments")
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return 0, err
	}
	return comment.BlogID, nil
}
