package repository

import (
	"context"
	"fmt"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.Blog{}, &models.Comment{},
		&models.Like{}, &models.Bookmark{}, &models.Feedback{}, &models.ContactMessage{},
	))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestBlog(t *testing.T, db *gorm.DB, userID uint, title string) *models.Blog {
	t.Helper()
	blog := &models.Blog{
		Title:   title,
		Content: fmt.Sprintf("<p>Content for %s</p>", title),
		UserID:  userID,
	}
	require.NoError(t, db.Create(blog).Error)
	return blog
}

func testContext() context.Context {
	return context.Background()
}
