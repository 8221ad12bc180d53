package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/models"
)

// LikeRepository defines data access for likes. Pair uniqueness is a
// database constraint; Delete reports removed rows so callers can tell a
// no-op unlike from a real one.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, messageID uint) (int64, error)
	Exists(ctx context.Context, userID, messageID uint) (bool, error)
	CountForMessage(ctx context.Context, messageID uint) (int64, error)
	// CountsForMessages returns like counts keyed by message ID for a batch
	// of messages. IDs with zero likes are absent from the map.
	CountsForMessages(ctx context.Context, messageIDs []uint) (map[uint]int64, error)
	// LikedSet returns which of the given messages the user has liked.
	LikedSet(ctx context.Context, userID uint, messageIDs []uint) (map[uint]bool, error)
	// LikedMessages returns the messages a user has liked, newest like first.
	LikedMessages(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("already liked this message")
		}
		return models.NewInternalError(fmt.Errorf("creating like: %w", err))
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, messageID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{})
	if res.Error != nil {
		return 0, models.NewInternalError(fmt.Errorf("deleting like: %w", res.Error))
	}
	return res.RowsAffected, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(fmt.Errorf("checking like: %w", err))
	}
	return count > 0, nil
}

func (r *likeRepository) CountForMessage(ctx context.Context, messageID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("message_id = ?", messageID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(fmt.Errorf("counting likes: %w", err))
	}
	return count, nil
}

func (r *likeRepository) CountsForMessages(ctx context.Context, messageIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(messageIDs))
	if len(messageIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		MessageID uint
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("message_id, COUNT(*) AS total").
		Where("message_id IN ?", messageIDs).
		Group("message_id").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("counting likes in batch: %w", err))
	}
	for _, row := range rows {
		counts[row.MessageID] = row.Total
	}
	return counts, nil
}

func (r *likeRepository) LikedSet(ctx context.Context, userID uint, messageIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(messageIDs))
	if len(messageIDs) == 0 {
		return liked, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND message_id IN ?", userID, messageIDs).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("fetching liked set: %w", err))
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *likeRepository) LikedMessages(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Limit(limit).Offset(offset).
		Preload("User").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("listing liked messages: %w", err))
	}
	return messages, nil
}
