package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// MessageRepository persists the write-only feedback and contact logs.
type MessageRepository interface {
	CreateFeedback(ctx context.Context, fb *models.Feedback) error
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *messageRepository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}
