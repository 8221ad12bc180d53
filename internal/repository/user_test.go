package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"warbler/internal/cache"
	"warbler/internal/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID_Mock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedUser  *models.User
		expectedCode  string
		expectedError bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "robin", "robin@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "robin", Email: "robin@example.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
			expectedCode:  models.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)
			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, models.HasCode(err, tt.expectedCode))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUser.Username, user.Username)
				assert.Equal(t, tt.expectedUser.Email, user.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_DuplicateConflicts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Username: "wren", Email: "wren@example.com", Password: "x"}
	require.NoError(t, repo.Create(ctx, first))

	t.Run("Duplicate Username", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "wren", Email: "other@example.com", Password: "x"})
		assert.True(t, models.HasCode(err, models.CodeConflict))
		assert.Contains(t, err.Error(), "username")
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "other", Email: "wren@example.com", Password: "x"})
		assert.True(t, models.HasCode(err, models.CodeConflict))
		assert.Contains(t, err.Error(), "email")
	})
}

func TestUserRepository_GetByUsername_AbsentIsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.GetByUsername(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, user)

	email, err := repo.GetByEmail(ctx, "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, email)
}

func TestUserRepository_SearchByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "songbird")
	createTestUser(t, db, "bluebird")
	createTestUser(t, db, "falcon")

	users, err := repo.SearchByUsername(ctx, "bird", 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Ordered by username.
	assert.Equal(t, "bluebird", users[0].Username)
	assert.Equal(t, "songbird", users[1].Username)
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	victim := createTestUser(t, db, "victim")
	other := createTestUser(t, db, "other")

	victimMsg := &models.Message{Text: "mine", UserID: victim.ID}
	otherMsg := &models.Message{Text: "theirs", UserID: other.ID}
	require.NoError(t, db.Create(victimMsg).Error)
	require.NoError(t, db.Create(otherMsg).Error)

	// Edges and likes in both directions.
	require.NoError(t, db.Create(&models.Follow{FollowerID: victim.ID, FollowingID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: other.ID, FollowingID: victim.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: victim.ID, MessageID: otherMsg.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: other.ID, MessageID: victimMsg.ID}).Error)

	require.NoError(t, repo.DeleteCascade(ctx, victim.ID))

	var users, messages, follows, likes int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Message{}).Count(&messages)
	db.Model(&models.Follow{}).Count(&follows)
	db.Model(&models.Like{}).Count(&likes)

	assert.Equal(t, int64(1), users, "only the other user remains")
	assert.Equal(t, int64(1), messages, "only the other user's message remains")
	assert.Equal(t, int64(0), follows, "no follow edge may reference the deleted user")
	assert.Equal(t, int64(0), likes, "no like may reference the deleted user or their messages")
}

func TestUserRepository_DeleteCascade_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.DeleteCascade(context.Background(), 12345)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestUserRepository_GetByIDWithPasswordBypassesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(client)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = client.Close()
	})

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "wren")

	// Populate the cache; the JSON copy has no password hash.
	cached, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	cached, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cached.Password)

	fresh, err := repo.GetByIDWithPassword(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed", fresh.Password)

	_, err = repo.GetByIDWithPassword(ctx, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
