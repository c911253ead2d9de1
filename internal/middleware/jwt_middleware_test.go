package middleware_test

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"lyyn/internal/middleware"
	"lyyn/internal/models"
	"lyyn/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestApp(authService *services.AuthService) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentClaims(c).Email)
	})
	app.Get("/admin", middleware.AuthRequired(authService), middleware.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthRequired(t *testing.T) {
	authService := services.NewAuthService(nil, "secret")
	app := newTestApp(authService)

	token, err := authService.IssueToken(&models.User{ID: "u1", Email: "asha@example.com"})
	require.NoError(t, err)

	resp := get(t, app, "/me", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "asha@example.com", string(body))

	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", "garbage").StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRequired(t *testing.T) {
	authService := services.NewAuthService(nil, "secret")
	app := newTestApp(authService)

	customer, _ := authService.IssueToken(&models.User{ID: "u1", Email: "c@example.com"})
	admin, _ := authService.IssueToken(&models.User{ID: "a1", Email: "a@example.com", IsAdmin: true})

	assert.Equal(t, http.StatusForbidden, get(t, app, "/admin", customer).StatusCode)
	assert.Equal(t, http.StatusNoContent, get(t, app, "/admin", admin).StatusCode)
}
