package service

import (
	"context"
	"fmt"
	"log/slog"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

type LikeService struct {
	likeRepo    repository.LikeRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
) *LikeService {
	return &LikeService{likeRepo: likeRepo, messageRepo: messageRepo, userRepo: userRepo}
}

// Like records a like on a message. Liking your own message is a validation
// error and liking the same message twice is a Conflict.
func (s *LikeService) Like(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID == userID {
		return models.NewValidationError("cannot like your own message")
	}

	like := &models.Like{UserID: userID, MessageID: messageID}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return err
	}
	observability.LikeEvents.WithLabelValues("like").Inc()
	return nil
}

// Unlike removes a like. Unliking a message that was never liked is a
// Conflict; removing more than one row means the unique index has been
// violated and is reported as an integrity fault.
func (s *LikeService) Unlike(ctx context.Context, userID, messageID uint) error {
	affected, err := s.likeRepo.Delete(ctx, userID, messageID)
	if err != nil {
		return err
	}
	switch {
	case affected == 0:
		return models.NewConflictError("message not liked")
	case affected > 1:
		slog.ErrorContext(ctx, "duplicate likes removed",
			"user_id", userID, "message_id", messageID, "rows", affected)
		observability.IntegrityFaults.WithLabelValues("like").Inc()
		return models.NewIntegrityFaultError(fmt.Sprintf("unlike removed %d rows", affected))
	}
	observability.LikeEvents.WithLabelValues("unlike").Inc()
	return nil
}

// LikedMessages lists the messages a user has liked, newest like first.
func (s *LikeService) LikedMessages(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	messages, err := s.likeRepo.LikedMessages(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(messages))
	for i := range messages {
		ids[i] = messages[i].ID
	}
	counts, err := s.likeRepo.CountsForMessages(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].LikeCount = counts[messages[i].ID]
		messages[i].Liked = true
	}
	return messages, nil
}
