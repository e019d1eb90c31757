// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumBlogs    int
	ShouldClean bool
	MaxDays     int
}

// Seeder populates the database with demo users, blogs, and engagement.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes previously seeded data. Order matters because of
// foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Like{}, &models.Bookmark{}, &models.Comment{},
		&models.Blog{}, &models.Profile{}, &models.Feedback{},
		&models.ContactMessage{}, &models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, blogs, comments, and toggle memberships.
func (s *Seeder) Run() error {
	log.Printf("🌱 Seeding %d users and %d blogs...", s.opts.NumUsers, s.opts.NumBlogs)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Printf("⚠️  Warning: could not clear all existing data: %v", err)
		}
	}

	users, err := s.SeedUsers(s.opts.NumUsers)
	if err != nil {
		return err
	}
	blogs, err := s.SeedBlogs(users, s.opts.NumBlogs)
	if err != nil {
		return err
	}
	if err := s.SeedEngagement(users, blogs); err != nil {
		return err
	}

	log.Println("✨ Seeding complete. All test users have the password: Password123")
	return nil
}

// SeedUsers creates users with profiles; the first user is staff.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:     gofakeit.Email(),
			Password:  string(hashedPassword),
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			IsStaff:   i == 0,
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			return tx.Create(&models.Profile{
				UserID:    user.ID,
				AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			}).Error
		})
		if err != nil {
			return nil, fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}

	log.Printf("👤 Created %d users (%s is staff)", len(users), users[0].Username)
	return users, nil
}

// SeedBlogs creates blogs with a realistic created_at spread.
func (s *Seeder) SeedBlogs(users []*models.User, n int) ([]*models.Blog, error) {
	maxDays := s.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}

	blogs := make([]*models.Blog, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		blog := &models.Blog{
			Title:    gofakeit.Sentence(5),
			Content:  "<p>" + gofakeit.Paragraph(2, 4, 8, "</p><p>") + "</p>",
			UserID:   author.ID,
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		}
		daysBack := s.rng.Intn(maxDays)
		hoursBack := s.rng.Intn(24)
		blog.CreatedAt = time.Now().
			Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

		if err := s.db.Create(blog).Error; err != nil {
			return nil, fmt.Errorf("creating blog %d: %w", i, err)
		}
		blogs = append(blogs, blog)
	}

	log.Printf("📝 Created %d blogs", len(blogs))
	return blogs, nil
}

// SeedEngagement sprinkles comments, likes, and bookmarks over the blogs.
func (s *Seeder) SeedEngagement(users []*models.User, blogs []*models.Blog) error {
	var comments, likes, bookmarks int

	for _, blog := range blogs {
		for _, user := range users {
			roll := s.rng.Float64()
			if roll < 0.15 {
				comment := &models.Comment{
					Content: gofakeit.Sentence(s.rng.Intn(15) + 3),
					BlogID:  blog.ID,
					UserID:  user.ID,
				}
				if err := s.db.Create(comment).Error; err != nil {
					return err
				}
				comments++
			}
			if roll < 0.35 {
				if err := s.db.Create(&models.Like{UserID: user.ID, BlogID: blog.ID}).Error; err != nil {
					return err
				}
				likes++
			}
			if roll < 0.10 {
				if err := s.db.Create(&models.Bookmark{UserID: user.ID, BlogID: blog.ID}).Error; err != nil {
					return err
				}
				bookmarks++
			}
		}
	}

	log.Printf("💬 Created %d comments, %d likes, %d bookmarks", comments, likes, bookmarks)
	return nil
}
