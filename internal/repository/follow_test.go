package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/models"
)

func TestFollowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	t.Run("Create", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
		assert.NoError(t, err)

		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Duplicate Is Conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
		assert.True(t, models.HasCode(err, models.CodeConflict))
	})

	t.Run("Self Edge Rejected By Check Constraint", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: alice.ID})
		assert.Error(t, err)
	})

	t.Run("Direction Matters", func(t *testing.T) {
		exists, err := repo.Exists(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, exists, "alice following bob does not make bob follow alice")
	})

	t.Run("Counts And Listings", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: carol.ID, FollowingID: bob.ID}))

		followers, err := repo.Followers(ctx, bob.ID, 10, 0)
		require.NoError(t, err)
		assert.Len(t, followers, 2)

		following, err := repo.Following(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, "bob", following[0].Username)

		count, err := repo.FollowerCount(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.FollowingCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		ids, err := repo.FollowerIDs(ctx, bob.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{alice.ID, carol.ID}, ids)
	})

	t.Run("Delete Reports Rows", func(t *testing.T) {
		affected, err := repo.Delete(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		affected, err = repo.Delete(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected, "second delete removes nothing")
	})
}
