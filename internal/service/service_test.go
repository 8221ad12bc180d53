package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"warbler/internal/cache"
	"warbler/internal/models"
	"warbler/internal/repository"
)

// testEnv wires every service against one in-memory database, the same way
// the server does in production.
type testEnv struct {
	db       *gorm.DB
	auth     *AuthService
	users    *UserService
	follows  *FollowService
	messages *MessageService
	likes    *LikeService
	feed     *FeedService
}

func setupEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follow{}, &models.Like{})
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	return &testEnv{
		db:       db,
		auth:     NewAuthService(userRepo),
		users:    NewUserService(userRepo, followRepo),
		follows:  NewFollowService(followRepo, userRepo, nil),
		messages: NewMessageService(messageRepo, likeRepo, followRepo, userRepo, nil),
		likes:    NewLikeService(likeRepo, messageRepo, userRepo),
		feed:     NewFeedService(messageRepo, likeRepo),
	}
}

// enableCache backs the repository cache layer with miniredis for the
// duration of the test, so cache-aside reads actually hit Redis.
func enableCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(client)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = client.Close()
	})
}

func (e *testEnv) signup(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.auth.Signup(context.Background(), SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	return user
}
