package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/assistant"
	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type testServer struct {
	app *fiber.App
	srv *Server
	db  *gorm.DB
	gen *fakeGenerator
}

func setupTestServer(t *testing.T) *testServer {
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

	cfg := &config.Config{
		JWTSecret: "test-secret-key",
		Port:      "0",
		Env:       "test",
		MediaDir:  t.TempDir(),
	}

	gen := &fakeGenerator{response: "An answer."}
	srv := NewServerWithDeps(cfg, db, nil,
		repository.NewUserRepository(db),
		repository.NewBlogRepository(db),
		repository.NewCommentRepository(db),
		repository.NewMessageRepository(db),
		assistant.NewService(gen),
		storage.NewMediaStore(cfg.MediaDir, 1),
	)

	app := fiber.New()
	srv.SetupRoutes(app)

	return &testServer{app: app, srv: srv, db: db, gen: gen}
}

// signupUser registers a user through the API and returns their token and ID.
func (ts *testServer) signupUser(t *testing.T, username string) (string, uint) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Password123",
	})
	req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token, out.User.ID
}

// promoteToStaff flips the staff flag directly in the store.
func (ts *testServer) promoteToStaff(t *testing.T, userID uint) {
	t.Helper()
	require.NoError(t, ts.db.Model(&models.User{}).
		Where("id = ?", userID).Update("is_staff", true).Error)
}

func (ts *testServer) createBlog(t *testing.T, token, title string) *models.Blog {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"title":   title,
		"content": "<p>Some content</p>",
	})
	req := httptest.NewRequest("POST", "/api/blogs/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var blog models.Blog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&blog))
	return &blog
}

// doJSON fires a JSON request at the app and returns the decoded body (nil
// for empty or non-JSON responses) plus the response itself.
func doJSON(t *testing.T, app *fiber.App, method, target string, payload any, token string) (map[string]any, *http.Response) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return decoded, resp
}
