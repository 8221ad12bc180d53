package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/cache"
	"warbler/internal/models"
)

// MessageRepository defines data access for messages, including the home
// timeline query.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
	// DeleteWithLikes removes a message and every like pointing at it in a
	// single transaction, and reports how many message rows went away.
	DeleteWithLikes(ctx context.Context, id uint) (int64, error)
	// Timeline returns the newest messages authored by the given user or by
	// anyone they follow. It runs as one statement so the result is a
	// consistent snapshot; ordering ties on created_at break by id.
	Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("creating message: %w", err))
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	err := cache.Aside(ctx, cache.MessageKey(id), &message, cache.MessageTTL, func() error {
		err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("message", id)
		}
		if err != nil {
			return models.NewInternalError(fmt.Errorf("fetching message %d: %w", id, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("listing messages for user %d: %w", userID, err))
	}
	return messages, nil
}

func (r *messageRepository) DeleteWithLikes(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("deleting likes for message: %w", err)
		}
		res := tx.Delete(&models.Message{}, id)
		if res.Error != nil {
			return fmt.Errorf("deleting message row: %w", res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	cache.InvalidateMessage(ctx, id)
	return affected, nil
}

func (r *messageRepository) Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	followed := r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("assembling timeline for user %d: %w", userID, err))
	}
	return messages, nil
}
