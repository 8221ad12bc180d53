package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"warbler/internal/config"
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/service"
)

// newTestServer wires a Server against an in-memory database without the
// Prometheus middleware, which cannot be registered twice per process.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follow{}, &models.Like{}))

	cfg := &config.Config{JWTSecret: "test_secret", Port: "0"}
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		followRepo:  repository.NewFollowRepository(db),
		messageRepo: repository.NewMessageRepository(db),
		likeRepo:    repository.NewLikeRepository(db),
	}
	s.authService = service.NewAuthService(s.userRepo)
	s.userService = service.NewUserService(s.userRepo, s.followRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo, nil)
	s.messageService = service.NewMessageService(s.messageRepo, s.likeRepo, s.followRepo, s.userRepo, nil)
	s.likeService = service.NewLikeService(s.likeRepo, s.messageRepo, s.userRepo)
	s.feedService = service.NewFeedService(s.messageRepo, s.likeRepo)
	return s
}

// asUser returns middleware that plants a user ID the way AuthRequired does.
func asUser(id uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", id)
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dest))
}

// signupUser registers an account through the real handler and returns the
// created user and token.
func signupUser(t *testing.T, app *fiber.App, username string) (*models.User, string) {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &body)
	return &body.User, body.Token
}
