// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"warbler/internal/models"
)

// DefaultPassword is the password every seeded user gets, so seeded
// accounts can be logged into during development.
const DefaultPassword = "password6"

// Factory builds domain entities and persists them to the database. It is a
// thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
	// passwordHash is computed once; bcrypt per user would dominate seeding time.
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}
	return &Factory{
		db:           db,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}, nil
}

// BuildUser constructs a user without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	username := fmt.Sprintf("%s_%s%d",
		gofakeit.FirstName(), gofakeit.LastName(), f.rand.Intn(1000))
	user := &models.User{
		Username:       username,
		Email:          fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		Password:       f.passwordHash,
		Bio:            gofakeit.Sentence(8),
		Location:       gofakeit.City(),
		ImageURL:       models.DefaultImageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("seeding user: %w", err)
	}
	return user, nil
}

// BuildMessage constructs a message for the given author without persisting
// it. CreatedAt is spread over the past maxDays so timelines look lived-in.
func (f *Factory) BuildMessage(user *models.User, maxDays int) *models.Message {
	if maxDays <= 0 {
		maxDays = 90
	}
	text := gofakeit.Sentence(4 + f.rand.Intn(10))
	if len(text) > models.MaxMessageLength {
		text = text[:models.MaxMessageLength]
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return &models.Message{
		Text:   text,
		UserID: user.ID,
		CreatedAt: time.Now().
			Add(-time.Duration(daysBack)*24*time.Hour -
				time.Duration(hoursBack)*time.Hour -
				time.Duration(minsBack)*time.Minute),
	}
}

// CreateMessagesBatch persists many messages in one insert.
func (f *Factory) CreateMessagesBatch(messages []*models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := f.db.CreateInBatches(messages, 200).Error; err != nil {
		return fmt.Errorf("seeding messages: %w", err)
	}
	return nil
}

// CreateFollow persists one follow edge, skipping duplicates and self-edges.
func (f *Factory) CreateFollow(followerID, followingID uint) error {
	if followerID == followingID {
		return nil
	}
	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	err := f.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		FirstOrCreate(follow).Error
	if err != nil {
		return fmt.Errorf("seeding follow: %w", err)
	}
	return nil
}

// CreateLike persists one like, skipping duplicates and self-likes.
func (f *Factory) CreateLike(userID uint, message *models.Message) error {
	if message.UserID == userID {
		return nil
	}
	like := &models.Like{UserID: userID, MessageID: message.ID}
	err := f.db.Where("user_id = ? AND message_id = ?", userID, message.ID).
		FirstOrCreate(like).Error
	if err != nil {
		return fmt.Errorf("seeding like: %w", err)
	}
	return nil
}
