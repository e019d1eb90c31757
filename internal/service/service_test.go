package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	blogSvc    *BlogService
	commentSvc *CommentService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.Blog{}, &models.Comment{},
		&models.Like{}, &models.Bookmark{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return &testEnv{
		db:         db,
		userRepo:   userRepo,
		blogSvc:    NewBlogService(blogRepo, userRepo.GetByID),
		commentSvc: NewCommentService(commentRepo, blogRepo, userRepo.GetByID),
	}
}

func (e *testEnv) createUser(t *testing.T, username string, staff bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		IsStaff:  staff,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) createBlog(t *testing.T, userID uint, title string) *models.Blog {
	t.Helper()
	blog, err := e.blogSvc.CreateBlog(context.Background(), CreateBlogInput{
		UserID:  userID,
		Title:   title,
		Content: "<p>Some content</p>",
	})
	require.NoError(t, err)
	return blog
}

func errorCode(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func TestCreateBlogRejectsMarkupOnlyText(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)

	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"Empty title", "", "<p>content</p>"},
		{"Whitespace title", "   ", "<p>content</p>"},
		{"Empty content", "Title", ""},
		{"Markup-only content", "Title", "<p>   </p>"},
		{"Nested empty markup", "Title", "<div><span>\n\t</span></div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.blogSvc.CreateBlog(context.Background(), CreateBlogInput{
				UserID:  author.ID,
				Title:   tt.title,
				Content: tt.content,
			})
			require.Error(t, err)
			assert.Equal(t, models.CodeValidation, errorCode(err))
		})
	}
}

func TestCreateBlogKeepsMarkupInStoredContent(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)

	blog, err := env.blogSvc.CreateBlog(context.Background(), CreateBlogInput{
		UserID:  author.ID,
		Title:   "Formatted",
		Content: "<p>Hello <strong>world</strong></p>",
	})
	require.NoError(t, err)
	// Validation strips markup for the emptiness check only; the stored
	// content keeps it
	assert.Equal(t, "<p>Hello <strong>world</strong></p>", blog.Content)
	assert.Equal(t, author.ID, blog.UserID)
}

func TestUpdateBlogAuthorization(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)
	other := env.createUser(t, "other", false)
	staff := env.createUser(t, "staff", true)
	blog := env.createBlog(t, author.ID, "Original")

	// A stranger is refused
	_, err := env.blogSvc.UpdateBlog(context.Background(), UpdateBlogInput{
		UserID: other.ID,
		BlogID: blog.ID,
		Title:  "Hijacked",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, errorCode(err))

	// The author may edit
	updated, err := env.blogSvc.UpdateBlog(context.Background(), UpdateBlogInput{
		UserID: author.ID,
		BlogID: blog.ID,
		Title:  "Revised",
	})
	require.NoError(t, err)
	assert.Equal(t, "Revised", updated.Title)

	// Staff may edit anyone's blog
	updated, err = env.blogSvc.UpdateBlog(context.Background(), UpdateBlogInput{
		UserID: staff.ID,
		BlogID: blog.ID,
		Title:  "Moderated",
	})
	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Title)
}

func TestDeleteBlogAuthorization(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)
	other := env.createUser(t, "other", false)
	blog := env.createBlog(t, author.ID, "Doomed")

	err := env.blogSvc.DeleteBlog(context.Background(), DeleteBlogInput{
		UserID: other.ID,
		BlogID: blog.ID,
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, errorCode(err))

	require.NoError(t, env.blogSvc.DeleteBlog(context.Background(), DeleteBlogInput{
		UserID: author.ID,
		BlogID: blog.ID,
	}))

	_, err = env.blogSvc.GetBlog(context.Background(), blog.ID, 0)
	assert.Error(t, err)
}

func TestToggleLikeReportsStateAndCount(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)
	reader := env.createUser(t, "reader", false)
	blog := env.createBlog(t, author.ID, "Likeable")

	result, err := env.blogSvc.ToggleLike(context.Background(), reader.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.Count)

	result, err = env.blogSvc.ToggleLike(context.Background(), reader.ID, blog.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.Count)
}

func TestToggleBookmarkReportsStateOnly(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)
	blog := env.createBlog(t, author.ID, "Saved")

	result, err := env.blogSvc.ToggleBookmark(context.Background(), author.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, result.Bookmarked)

	result, err = env.blogSvc.ToggleBookmark(context.Background(), author.ID, blog.ID)
	require.NoError(t, err)
	assert.False(t, result.Bookmarked)
}

func TestToggleLikeMissingBlog(t *testing.T) {
	env := setupEnv(t)
	reader := env.createUser(t, "reader", false)

	_, err := env.blogSvc.ToggleLike(context.Background(), reader.ID, 9999)
	assert.Error(t, err)
}

func TestAddCommentTrimsAndStores(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)
	blog := env.createBlog(t, author.ID, "Discussed")

	comment, err := env.commentSvc.AddComment(context.Background(), AddCommentInput{
		UserID:  author.ID,
		BlogID:  blog.ID,
		Content: "  a thoughtful remark  ",
	})
	require.NoError(t, err)
	require.NotNil(t, comment)
	assert.Equal(t, "a thoughtful remark", comment.Content)
}

func TestAddCommentWhitespaceIsNoOp(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)
	blog := env.createBlog(t, author.ID, "Quiet")

	comment, err := env.commentSvc.AddComment(context.Background(), AddCommentInput{
		UserID:  author.ID,
		BlogID:  blog.ID,
		Content: "   \n\t ",
	})
	require.NoError(t, err)
	assert.Nil(t, comment)

	comments, err := env.commentSvc.ListComments(context.Background(), blog.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteCommentIsStaffOnly(t *testing.T) {
	env := setupEnv(t)
	author := env.createUser(t, "author", false)
	staff := env.createUser(t, "staff", true)
	blog := env.createBlog(t, author.ID, "Moderated")

	comment, err := env.commentSvc.AddComment(context.Background(), AddCommentInput{
		UserID:  author.ID,
		BlogID:  blog.ID,
		Content: "borderline",
	})
	require.NoError(t, err)

	// Even the comment's author is refused
	_, err = env.commentSvc.DeleteComment(context.Background(), DeleteCommentInput{
		UserID:    author.ID,
		CommentID: comment.ID,
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, errorCode(err))

	blogID, err := env.commentSvc.DeleteComment(context.Background(), DeleteCommentInput{
		UserID:    staff.ID,
		CommentID: comment.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, blog.ID, blogID)

	comments, err := env.commentSvc.ListComments(context.Background(), blog.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
