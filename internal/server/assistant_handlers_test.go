package server

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistantSuggest(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "writer")
	ts.gen.response = "Try this:\n```\nprint(\"hi\")\n```"

	body, resp := doJSON(t, ts.app, "POST", "/api/assistant/suggest",
		map[string]string{"text": "how do I print?"}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	suggestion, _ := body["suggestion"].(string)
	assert.Contains(t, suggestion, "<pre")
	assert.Equal(t, 1, ts.gen.calls)
}

func TestAssistantSuggestEmptyTextRejectedBeforeProviderCall(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "writer")

	_, resp := doJSON(t, ts.app, "POST", "/api/assistant/suggest",
		map[string]string{"text": "   "}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, ts.gen.calls)

	_, resp = doJSON(t, ts.app, "POST", "/api/assistant/suggest",
		map[string]string{}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, ts.gen.calls)
}

func TestAssistantSuggestProviderFailure(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "writer")
	ts.gen.err = errors.New("provider down")

	body, resp := doJSON(t, ts.app, "POST", "/api/assistant/suggest",
		map[string]string{"text": "anything"}, token)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", body["code"])
}

func TestAssistantSuggestRequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	_, resp := doJSON(t, ts.app, "POST", "/api/assistant/suggest",
		map[string]string{"text": "anything"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, ts.gen.calls)
}
