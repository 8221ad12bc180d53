package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/models"
)

func TestGetFeedHandler(t *testing.T) {
	s := newTestServer(t)
	signup := fiber.New()
	signup.Post("/signup", s.Signup)
	alice, _ := signupUser(t, signup, "alice")
	bob, _ := signupUser(t, signup, "bob")
	eve, _ := signupUser(t, signup, "eve")

	post := func(userID uint, text string) {
		t.Helper()
		app := messageApp(s, userID)
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/messages", map[string]string{"text": text}))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		// Keep created_at strictly increasing for ordering assertions.
		time.Sleep(5 * time.Millisecond)
	}

	follows := followApp(s, alice.ID)
	resp, err := follows.Test(jsonRequest(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	post(bob.ID, "hello")
	post(eve.ID, "noise")
	post(alice.ID, "world")

	app := fiber.New()
	app.Get("/feed", asUser(alice.ID), s.GetFeed)

	feed := func() []models.Message {
		t.Helper()
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/feed", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var messages []models.Message
		decodeBody(t, resp, &messages)
		return messages
	}

	messages := feed()
	require.Len(t, messages, 2)
	assert.Equal(t, "world", messages[0].Text)
	assert.Equal(t, "hello", messages[1].Text)
	assert.Equal(t, "bob", messages[1].User.Username)

	// Unfollowing removes those messages from the feed immediately.
	resp, err = follows.Test(jsonRequest(t, http.MethodDelete, fmt.Sprintf("/users/%d/follow", bob.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	messages = feed()
	require.Len(t, messages, 1)
	assert.Equal(t, "world", messages[0].Text)
}

func TestGetFeedHandler_Limit(t *testing.T) {
	s := newTestServer(t)
	signup := fiber.New()
	signup.Post("/signup", s.Signup)
	alice, _ := signupUser(t, signup, "alice")

	posts := messageApp(s, alice.ID)
	for i := 0; i < 5; i++ {
		resp, err := posts.Test(jsonRequest(t, http.MethodPost, "/messages", map[string]string{
			"text": fmt.Sprintf("post %d", i),
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	app := fiber.New()
	app.Get("/feed", asUser(alice.ID), s.GetFeed)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/feed?limit=2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []models.Message
	decodeBody(t, resp, &messages)
	assert.Len(t, messages, 2)
}
