// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed page sizes for the two listing surfaces.
const (
	LoadMorePageSize = 2
	RecentLimit      = 9
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error)
	List(ctx context.Context, currentUserID uint) ([]*models.Blog, error)
	LoadMore(ctx context.Context, offset int, currentUserID uint) ([]*models.Blog, error)
	Recent(ctx context.Context, currentUserID uint) ([]*models.Blog, error)
	Search(ctx context.Context, query string, currentUserID uint) ([]*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, blogID uint) (liked bool, count int64, err error)
	ToggleBookmark(ctx context.Context, userID, blogID uint) (bookmarked bool, err error)
	IsLiked(ctx context.Context, userID, blogID uint) (bool, error)
	IsBookmarked(ctx context.Context, userID, blogID uint) (bool, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	err := r.db.WithContext(ctx).Create(blog).Error
	if err == nil {
		cache.InvalidateRecentBlogs(ctx)
	}
	return err
}

func (r *blogRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error) {
	var blog models.Blog

	fetch := func() error {
		return r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			First(&blog, id).Error
	}

	// Only the anonymous view is cacheable; liked/bookmarked vary per viewer.
	if currentUserID == 0 {
		if err := cache.Aside(ctx, cache.BlogKey(id), &blog, cache.BlogTTL, fetch); err != nil {
			return nil, err
		}
		return &blog, nil
	}

	if err := fetch(); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context, currentUserID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Find(&blogs).Error
	return blogs, err
}

// LoadMore returns the slice [offset, offset+LoadMorePageSize) of the
// newest-first blog sequence. Out-of-range offsets yield an empty slice.
func (r *blogRepository) LoadMore(ctx context.Context, offset int, currentUserID uint) ([]*models.Blog, error) {
	if offset < 0 {
		offset = 0
	}
	var blogs []*models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(LoadMorePageSize).
		Offset(offset).
		Find(&blogs).Error
	return blogs, err
}

// Recent returns the newest RecentLimit blogs for the home page.
func (r *blogRepository) Recent(ctx context.Context, currentUserID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog

	if currentUserID == 0 {
		err := cache.Aside(ctx, cache.RecentBlogsKey, &blogs, cache.RecentTTL, func() error {
			return r.applyBlogDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				Order("created_at DESC").
				Limit(RecentLimit).
				Find(&blogs).Error
		})
		return blogs, err
	}

	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(RecentLimit).
		Find(&blogs).Error
	return blogs, err
}

// Search filters by case-insensitive title substring. An empty query returns
// the full set. Filtered results keep the store's default order; no sort is
// applied here.
func (r *blogRepository) Search(ctx context.Context, query string, currentUserID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	base := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).Preload("User")
	if query != "" {
		base = base.Where("LOWER(title) LIKE LOWER(?)", "%"+query+"%")
	}
	err := base.Find(&blogs).Error
	return blogs, err
}

// applyBlogDetails adds subqueries to fetch counts and membership status in a single query.
func (r *blogRepository) applyBlogDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "blogs.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.blog_id = blogs.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.blog_id = blogs.id) as likes_count, " +
		"(SELECT COUNT(*) FROM bookmarks WHERE bookmarks.blog_id = blogs.id) as bookmarks_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.blog_id = blogs.id AND likes.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.blog_id = blogs.id AND bookmarks.user_id = ?) as bookmarked",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as bookmarked")
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		return err
	}
	cache.InvalidateBlog(ctx, blog.ID)
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Blog{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateBlog(ctx, id)
	return nil
}

// ToggleLike flips the (user, blog) like membership in a single transaction
// and reports the resulting state plus the total like count. The composite
// primary key with ON CONFLICT DO NOTHING prevents a lost double-insert when
// the same user toggles concurrently.
func (r *blogRepository) ToggleLike(ctx context.Context, userID, blogID uint) (bool, int64, error) {
	var liked bool
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("user_id = ? AND blog_id = ?", userID, blogID).First(&existing).Error
		switch {
		case err == nil:
			if derr := tx.Where("user_id = ? AND blog_id = ?", userID, blogID).
				Delete(&models.Like{}).Error; derr != nil {
				return derr
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if cerr := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{UserID: userID, BlogID: blogID}).Error; cerr != nil {
				return cerr
			}
			liked = true
		default:
			return err
		}
		return tx.Model(&models.Like{}).Where("blog_id = ?", blogID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}

	cache.InvalidateBlog(ctx, blogID)
	return liked, count, nil
}

// ToggleBookmark mirrors ToggleLike but only reports the membership state.
func (r *blogRepository) ToggleBookmark(ctx context.Context, userID, blogID uint) (bool, error) {
	var bookmarked bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Bookmark
		err := tx.Where("user_id = ? AND blog_id = ?", userID, blogID).First(&existing).Error
		switch {
		case err == nil:
			if derr := tx.Where("user_id = ? AND blog_id = ?", userID, blogID).
				Delete(&models.Bookmark{}).Error; derr != nil {
				return derr
			}
			bookmarked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if cerr := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Bookmark{UserID: userID, BlogID: blogID}).Error; cerr != nil {
				return cerr
			}
			bookmarked = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	cache.InvalidateBlog(ctx, blogID)
	return bookmarked, nil
}

func (r *blogRepository) IsLiked(ctx context.Context, userID, blogID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *blogRepository) IsBookmarked(ctx context.Context, userID, blogID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
