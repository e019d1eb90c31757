package server

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupValidation(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "Valid signup",
			body: map[string]string{
				"username": "newuser", "email": "new@example.com", "password": "Password123",
			},
			expectedStatus: fiber.StatusCreated,
		},
		{
			name: "Missing password",
			body: map[string]string{
				"username": "newuser2", "email": "new2@example.com",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "Weak password",
			body: map[string]string{
				"username": "newuser3", "email": "new3@example.com", "password": "short",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "Bad email",
			body: map[string]string{
				"username": "newuser4", "email": "not-an-email", "password": "Password123",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "Bad username",
			body: map[string]string{
				"username": "_leading", "email": "new5@example.com", "password": "Password123",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, resp := doJSON(t, ts.app, "POST", "/api/auth/signup", tt.body, "")
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == fiber.StatusCreated {
				assert.NotEmpty(t, body["token"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.signupUser(t, "original")

	_, resp := doJSON(t, ts.app, "POST", "/api/auth/signup", map[string]string{
		"username": "someone-else",
		"email":    "original@example.com",
		"password": "Password123",
	}, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSignupCreatesProfile(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "withprofile")

	body, resp := doJSON(t, ts.app, "GET", "/api/users/me", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, body["profile"])
	// No first/last name yet, so initials come from the username
	assert.Equal(t, "WI", body["initials"])
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	ts.signupUser(t, "loginuser")

	body, resp := doJSON(t, ts.app, "POST", "/api/auth/login", map[string]string{
		"email": "loginuser@example.com", "password": "Password123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	_, resp = doJSON(t, ts.app, "POST", "/api/auth/login", map[string]string{
		"email": "loginuser@example.com", "password": "WrongPassword1",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	_, resp = doJSON(t, ts.app, "POST", "/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": "Password123",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	_, resp := doJSON(t, ts.app, "GET", "/api/users/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	_, resp = doJSON(t, ts.app, "POST", "/api/blogs/1/like", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	_, resp = doJSON(t, ts.app, "GET", "/api/users/me", nil, "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
