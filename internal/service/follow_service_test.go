package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/models"
)

func TestFollowService_Follow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))
		following, err := env.follows.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)
	})

	t.Run("Asymmetric", func(t *testing.T) {
		following, err := env.follows.IsFollowing(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("Self Follow Is Validation Error", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.ID, alice.ID)
		assert.True(t, models.HasCode(err, models.CodeValidation))
	})

	t.Run("Double Follow Is Conflict", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.ID, bob.ID)
		assert.True(t, models.HasCode(err, models.CodeConflict))
	})

	t.Run("Unknown Target Is NotFound", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.ID, 9999)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})
}

func TestFollowService_Unfollow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))

	require.NoError(t, env.follows.Unfollow(ctx, alice.ID, bob.ID))

	following, err := env.follows.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	err = env.follows.Unfollow(ctx, alice.ID, bob.ID)
	assert.True(t, models.HasCode(err, models.CodeConflict),
		"unfollowing an absent edge is a conflict, never silent success")
}

func TestFollowService_Listings(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	carol := env.signup(t, "carol")

	require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, env.follows.Follow(ctx, carol.ID, bob.ID))

	followers, err := env.follows.Followers(ctx, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	_, err = env.follows.Followers(ctx, 9999, 10, 0)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
