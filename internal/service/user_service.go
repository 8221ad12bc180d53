package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

type UpdateProfileInput struct {
	UserID          uint
	CurrentPassword string
	Username        string
	Email           string
	Bio             string
	Location        string
	ImageURL        string
	HeaderImageURL  string
}

const (
	maxBioLen      = 500
	maxLocationLen = 100
)

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// GetProfile returns a user with their derived follower and following counts
// attached. The counts are always computed from the follows table, never
// stored.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.FollowerCount, err = s.followRepo.FollowerCount(ctx, id); err != nil {
		return nil, err
	}
	if user.FollowingCount, err = s.followRepo.FollowingCount(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}

// Search finds users whose username contains the query substring.
func (s *UserService) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.userRepo.List(ctx, limit, offset)
	}
	return s.userRepo.SearchByUsername(ctx, query, limit, offset)
}

// UpdateProfile edits a user's own profile. The caller must re-confirm their
// current password; a wrong password is an Unauthorized error, not a
// validation failure.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithPassword(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return nil, models.NewUnauthorizedError("wrong password")
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Email != "" && in.Email != user.Email {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Location != "" {
		if len(in.Location) > maxLocationLen {
			return nil, models.NewValidationError("location too long (max 100 characters)")
		}
		user.Location = in.Location
	}
	if in.ImageURL != "" {
		user.ImageURL = in.ImageURL
	}
	if in.HeaderImageURL != "" {
		user.HeaderImageURL = in.HeaderImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and everything they own in one transaction.
// After it returns nil, no message, like, or follow edge referencing the
// account remains.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.userRepo.DeleteCascade(ctx, userID); err != nil {
		return err
	}
	observability.AccountDeletions.Inc()
	slog.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}
