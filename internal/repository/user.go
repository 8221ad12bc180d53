package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"warbler/internal/cache"
	"warbler/internal/models"
	"warbler/internal/observability"
)

// UserRepository defines data access for user accounts, including the
// transactional cascade that removes every row owned by an account.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIDWithPassword reads the row straight from the database. The
	// cached read round-trips through JSON and the password hash is
	// json:"-", so credential checks must never go through the cache.
	GetByIDWithPassword(ctx context.Context, id uint) (*models.User, error)
	// GetByUsername and GetByEmail return (nil, nil) when no row matches,
	// so callers can distinguish "absent" from a storage failure.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SearchByUsername(ctx context.Context, query string, limit, offset int) ([]models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	// DeleteCascade removes the user and all dependent rows in a single
	// transaction: likes placed by the user, likes on the user's messages,
	// follow edges in both directions, the messages themselves, then the
	// user row. Either everything goes or nothing does.
	DeleteCascade(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			if violationMentions(err, "email") {
				return models.NewConflictError("email already registered")
			}
			return models.NewConflictError("username already taken")
		}
		return models.NewInternalError(fmt.Errorf("creating user: %w", err))
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		err := r.db.WithContext(ctx).First(&user, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("user", id)
		}
		if err != nil {
			return models.NewInternalError(fmt.Errorf("fetching user %d: %w", id, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDWithPassword(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("fetching user %d: %w", id, err))
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("fetching user by username: %w", err))
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("fetching user by email: %w", err))
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			if violationMentions(err, "email") {
				return models.NewConflictError("email already registered")
			}
			return models.NewConflictError("username already taken")
		}
		return models.NewInternalError(fmt.Errorf("updating user %d: %w", user.ID, err))
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) SearchByUsername(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("username LIKE ?", "%"+query+"%").
		Order("username ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("searching users: %w", err))
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("listing users: %w", err))
	}
	return users, nil
}

func (r *userRepository) DeleteCascade(ctx context.Context, id uint) error {
	var messageIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Collect message IDs first so their cache keys can be dropped
		// after commit.
		if err := tx.Model(&models.Message{}).Where("user_id = ?", id).Pluck("id", &messageIDs).Error; err != nil {
			return fmt.Errorf("collecting message ids: %w", err)
		}
		// Likes placed by the user.
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("deleting likes by user: %w", err)
		}
		// Likes on the user's messages.
		ownMessages := tx.Model(&models.Message{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("message_id IN (?)", ownMessages).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("deleting likes on user's messages: %w", err)
		}
		// Follow edges in both directions.
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return fmt.Errorf("deleting follow edges: %w", err)
		}
		// The user's messages.
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("deleting messages: %w", err)
		}
		// Finally the account row itself.
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("deleting user row: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("user", id)
		}
		if res.RowsAffected > 1 {
			slog.ErrorContext(ctx, "deleted more than one user row", "user_id", id, "rows", res.RowsAffected)
			observability.IntegrityFaults.WithLabelValues("user").Inc()
			return models.NewIntegrityFaultError(fmt.Sprintf("user delete affected %d rows", res.RowsAffected))
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	for _, messageID := range messageIDs {
		cache.InvalidateMessage(ctx, messageID)
	}
	return nil
}
