package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fritter/internal/config"
	"fritter/internal/database"
	"fritter/internal/middleware"
	"fritter/internal/repository"
	"fritter/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer builds a server over an in-memory database with routes
// registered. Prometheus and Redis are left unset; both are optional.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Port:      "8375",
		Env:       "test",
	}
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	freetRepo := repository.NewFreetRepository(db)
	graphRepo := repository.NewGraphRepository(db)

	s := &Server{
		config:    cfg,
		db:        db,
		userRepo:  userRepo,
		freetRepo: freetRepo,
		graphRepo: graphRepo,
	}
	s.userService = service.NewUserService(userRepo, graphRepo)
	s.freetService = service.NewFreetService(freetRepo, userRepo)
	s.graphService = service.NewGraphService(graphRepo, userRepo, freetRepo)
	s.feedService = service.NewFeedService(graphRepo, userRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// doJSON performs a request with an optional bearer token and JSON body,
// returning the status code and decoded response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// signup registers a user and returns its bearer token.
func signup(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	token, ok := body["token"].(string)
	require.True(t, ok, "signup response must carry a token")
	return token
}

// postFreet publishes a freet and returns its id.
func postFreet(t *testing.T, app *fiber.App, token, content string) uint {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/freets", token, fiber.Map{
		"content": content,
	})
	require.Equal(t, http.StatusCreated, status)
	freet, ok := body["freet"].(map[string]any)
	require.True(t, ok)
	return uint(freet["id"].(float64))
}
