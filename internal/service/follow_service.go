package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"warbler/internal/models"
	"warbler/internal/notifications"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo, notifier: notifier}
}

// Follow creates a follow edge from follower to following. Following
// yourself is a validation error, a missing target is NotFound, and
// following someone twice is a Conflict.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) error {
	if followerID == followingID {
		return models.NewValidationError("cannot follow yourself")
	}

	target, err := s.userRepo.GetByID(ctx, followingID)
	if err != nil {
		return err
	}
	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		return err
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return err
	}

	observability.FollowEvents.WithLabelValues("follow").Inc()
	slog.InfoContext(ctx, "follow created", "follower_id", followerID, "following_id", followingID)

	if s.notifier != nil {
		event := notifications.FeedEvent{
			Type:      "new_follower",
			ActorID:   follower.ID,
			ActorName: follower.Username,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.notifier.PublishFeed(ctx, target.ID, event); err != nil {
			slog.WarnContext(ctx, "follower notification failed", "user_id", target.ID, "error", err)
		}
	}
	return nil
}

// Unfollow removes the follow edge. Removing an edge that does not exist is
// a Conflict; removing more than one means the unique index has been
// violated and is reported as an integrity fault.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	affected, err := s.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	switch {
	case affected == 0:
		return models.NewConflictError("not following this user")
	case affected > 1:
		slog.ErrorContext(ctx, "duplicate follow edges removed",
			"follower_id", followerID, "following_id", followingID, "rows", affected)
		observability.IntegrityFaults.WithLabelValues("follow").Inc()
		return models.NewIntegrityFaultError(fmt.Sprintf("unfollow removed %d edges", affected))
	}
	observability.FollowEvents.WithLabelValues("unfollow").Inc()
	return nil
}

// IsFollowing reports whether follower currently follows following.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followingID)
}

// Followers lists the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID, limit, offset)
}

// Following lists the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID, limit, offset)
}
