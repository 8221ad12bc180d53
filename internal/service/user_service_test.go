package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/models"
)

func TestUserService_GetProfileDerivedCounts(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	star := env.signup(t, "star")
	fan1 := env.signup(t, "fanone")
	fan2 := env.signup(t, "fantwo")

	require.NoError(t, env.follows.Follow(ctx, fan1.ID, star.ID))
	require.NoError(t, env.follows.Follow(ctx, fan2.ID, star.ID))
	require.NoError(t, env.follows.Follow(ctx, star.ID, fan1.ID))

	profile, err := env.users.GetProfile(ctx, star.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.FollowerCount)
	assert.Equal(t, int64(1), profile.FollowingCount)
}

func TestUserService_UpdateProfileRequiresPassword(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.signup(t, "finch")

	_, err := env.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID:          user.ID,
		CurrentPassword: "wrong-password",
		Bio:             "new bio",
	})
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))

	updated, err := env.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID:          user.ID,
		CurrentPassword: "hunter22",
		Bio:             "new bio",
		Location:        "the forest",
	})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, "the forest", updated.Location)
	assert.Equal(t, "finch", updated.Username, "unspecified fields are untouched")
}

func TestUserService_UpdateProfileAfterCachedRead(t *testing.T) {
	enableCache(t)
	env := setupEnv(t)
	ctx := context.Background()
	user := env.signup(t, "finch")

	// Populate the user cache; the cached copy has no password hash
	// because the field is json:"-".
	_, err := env.users.GetProfile(ctx, user.ID)
	require.NoError(t, err)

	// The correct current password must still be accepted.
	updated, err := env.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID:          user.ID,
		CurrentPassword: "hunter22",
		Bio:             "still me",
	})
	require.NoError(t, err)
	assert.Equal(t, "still me", updated.Bio)

	_, err = env.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID:          user.ID,
		CurrentPassword: "wrong-password",
		Bio:             "imposter",
	})
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestUserService_Search(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.signup(t, "songbird")
	env.signup(t, "bluebird")
	env.signup(t, "falcon")

	users, err := env.users.Search(ctx, "bird", 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	all, err := env.users.Search(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "empty query lists everyone")
}

func TestUserService_DeleteAccountLeavesNoOrphans(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	leaver := env.signup(t, "leaver")
	stayer := env.signup(t, "stayer")

	require.NoError(t, env.follows.Follow(ctx, leaver.ID, stayer.ID))
	require.NoError(t, env.follows.Follow(ctx, stayer.ID, leaver.ID))

	leaverMsg, err := env.messages.Post(ctx, leaver.ID, "goodbye world")
	require.NoError(t, err)
	stayerMsg, err := env.messages.Post(ctx, stayer.ID, "still here")
	require.NoError(t, err)

	require.NoError(t, env.likes.Like(ctx, leaver.ID, stayerMsg.ID))
	require.NoError(t, env.likes.Like(ctx, stayer.ID, leaverMsg.ID))

	require.NoError(t, env.users.DeleteAccount(ctx, leaver.ID))

	_, err = env.users.GetProfile(ctx, leaver.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	var follows, likes, messages int64
	env.db.Model(&models.Follow{}).Count(&follows)
	env.db.Model(&models.Like{}).Count(&likes)
	env.db.Model(&models.Message{}).Where("user_id = ?", leaver.ID).Count(&messages)
	assert.Zero(t, follows)
	assert.Zero(t, likes)
	assert.Zero(t, messages)

	// The stayer's own message survives.
	remaining, err := env.messages.Get(ctx, stayerMsg.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining.LikeCount, "the deleted user's like is gone")
}

func TestUserService_DeleteAccountEvictsCachedMessages(t *testing.T) {
	enableCache(t)
	env := setupEnv(t)
	ctx := context.Background()

	leaver := env.signup(t, "leaver")
	message, err := env.messages.Post(ctx, leaver.ID, "goodbye")
	require.NoError(t, err)

	// A read caches the message before the account goes away.
	cached, err := env.messages.Get(ctx, message.ID, 0)
	require.NoError(t, err)
	require.Equal(t, "goodbye", cached.Text)

	require.NoError(t, env.users.DeleteAccount(ctx, leaver.ID))

	_, err = env.messages.Get(ctx, message.ID, 0)
	assert.True(t, models.HasCode(err, models.CodeNotFound),
		"a cascade-deleted message must not be served from the cache")
}
