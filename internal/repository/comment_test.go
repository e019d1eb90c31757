package repository

import (
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListByBlogReturnsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	user := createTestUser(t, db, "commenter")
	blog := createTestBlog(t, db, user.ID, "Discussed")

	base := time.Now().Add(-time.Hour)
	for i, content := range []string{"oldest", "middle", "newest"} {
		comment := &models.Comment{
			Content:   content,
			UserID:    user.ID,
			BlogID:    blog.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(comment).Error)
	}

	comments, err := repo.ListByBlog(testContext(), blog.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "newest", comments[0].Content)
	assert.Equal(t, "middle", comments[1].Content)
	assert.Equal(t, "oldest", comments[2].Content)
	// Author comes along for rendering
	assert.Equal(t, "commenter", comments[0].User.Username)
}

func TestListByBlogScopesToBlog(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	user := createTestUser(t, db, "commenter")
	blogA := createTestBlog(t, db, user.ID, "A")
	blogB := createTestBlog(t, db, user.ID, "B")

	require.NoError(t, db.Create(&models.Comment{Content: "on A", UserID: user.ID, BlogID: blogA.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "on B", UserID: user.ID, BlogID: blogB.ID}).Error)

	comments, err := repo.ListByBlog(testContext(), blogA.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "on A", comments[0].Content)
}

func TestDeleteRemovesCommentFromListing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	user := createTestUser(t, db, "commenter")
	blog := createTestBlog(t, db, user.ID, "Moderated")

	comment := &models.Comment{Content: "spam", UserID: user.ID, BlogID: blog.ID}
	require.NoError(t, db.Create(comment).Error)

	require.NoError(t, repo.Delete(testContext(), comment.ID))

	comments, err := repo.ListByBlog(testContext(), blog.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
