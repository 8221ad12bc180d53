// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

type AuthService struct {
	userRepo repository.UserRepository
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Signup registers a new account. Username and email are validated before the
// password is hashed; uniqueness is enforced by the database, so concurrent
// signups with the same name resolve to exactly one winner.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hash),
		ImageURL:       in.ImageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and wrong
// passwords return the same Unauthorized error, so callers cannot probe which
// usernames exist.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("invalid credentials")
	}
	return user, nil
}
