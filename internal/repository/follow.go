package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/models"
)

// FollowRepository defines data access for the follow graph. Uniqueness of
// (follower, following) pairs is enforced by the database; Delete reports how
// many rows it removed so callers can detect both no-op unfollows and
// duplicate edges.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID uint) (int64, error)
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	// FollowerIDs returns the IDs of every user following userID. Used for
	// feed fan-out, where only the IDs matter.
	FollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	FollowerCount(ctx context.Context, userID uint) (int64, error)
	FollowingCount(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("already following this user")
		}
		if isCheckViolation(err) {
			return models.NewValidationError("cannot follow yourself")
		}
		return models.NewInternalError(fmt.Errorf("creating follow edge: %w", err))
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return 0, models.NewInternalError(fmt.Errorf("deleting follow edge: %w", res.Error))
	}
	return res.RowsAffected, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(fmt.Errorf("checking follow edge: %w", err))
	}
	return count > 0, nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("users.username ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("listing followers: %w", err))
	}
	return users, nil
}

func (r *followRepository) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("listing follower ids: %w", err))
	}
	return ids, nil
}

func (r *followRepository) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("listing following: %w", err))
	}
	return users, nil
}

func (r *followRepository) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(fmt.Errorf("counting followers: %w", err))
	}
	return count, nil
}

func (r *followRepository) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(fmt.Errorf("counting following: %w", err))
	}
	return count, nil
}
