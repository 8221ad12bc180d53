package seed

import (
	"fmt"
	"log/slog"
	"math/rand"

	"gorm.io/gorm"

	"warbler/internal/models"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumMessages int
	ShouldClean bool
	// MaxDays spreads seeded message timestamps over this many past days.
	MaxDays int
}

// Seed populates the database with a social mesh of test data: users, a
// follow graph, messages, and likes.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumMessages <= 0 {
		opts.NumMessages = opts.NumUsers * 10
	}

	slog.Info("seeding database", "users", opts.NumUsers, "messages", opts.NumMessages)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clearing existing data: %w", err)
		}
	}

	factory, err := NewFactory(db)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}

	// Follow mesh: each user follows a random handful of others.
	for _, follower := range users {
		numFollows := 2 + rand.Intn(6)
		for j := 0; j < numFollows; j++ {
			target := users[rand.Intn(len(users))]
			if err := factory.CreateFollow(follower.ID, target.ID); err != nil {
				return err
			}
		}
	}

	messages := make([]*models.Message, 0, opts.NumMessages)
	for i := 0; i < opts.NumMessages; i++ {
		author := users[rand.Intn(len(users))]
		messages = append(messages, factory.BuildMessage(author, opts.MaxDays))
	}
	if err := factory.CreateMessagesBatch(messages); err != nil {
		return err
	}

	// Likes: each user likes a random sample of other people's messages.
	for _, user := range users {
		numLikes := rand.Intn(10)
		for j := 0; j < numLikes; j++ {
			message := messages[rand.Intn(len(messages))]
			if err := factory.CreateLike(user.ID, message); err != nil {
				return err
			}
		}
	}

	slog.Info("seeding complete", "users", len(users), "messages", len(messages))
	return nil
}

// clearData removes all seeded rows in dependency order.
func clearData(db *gorm.DB) error {
	for _, model := range []any{&models.Like{}, &models.Follow{}, &models.Message{}, &models.User{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
