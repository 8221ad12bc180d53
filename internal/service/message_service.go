package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"warbler/internal/models"
	"warbler/internal/notifications"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

type MessageService struct {
	messageRepo repository.MessageRepository
	likeRepo    repository.LikeRepository
	followRepo  repository.FollowRepository
	userRepo    repository.UserRepository
	notifier    *notifications.Notifier
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	likeRepo repository.LikeRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		likeRepo:    likeRepo,
		followRepo:  followRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// Post creates a message for the given author. Text must be non-empty after
// trimming and at most 140 characters. On success the message is fanned out
// to every follower's feed channel; fan-out failures never fail the post.
func (s *MessageService) Post(ctx context.Context, userID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("message text is required")
	}
	if len([]rune(text)) > models.MaxMessageLength {
		return nil, models.NewValidationError(fmt.Sprintf("message exceeds %d characters", models.MaxMessageLength))
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{Text: text, UserID: userID}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	message.User = *author

	observability.MessagesPosted.Inc()
	slog.InfoContext(ctx, "message posted", "message_id", message.ID, "user_id", userID)

	if s.notifier != nil {
		go s.fanOut(author, message)
	}
	return message, nil
}

// fanOut pushes a new-message event to every follower's feed channel. Runs
// detached from the request, so it carries its own timeout.
func (s *MessageService) fanOut(author *models.User, message *models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	followerIDs, err := s.followRepo.FollowerIDs(ctx, author.ID)
	if err != nil {
		slog.Warn("feed fan-out skipped", "user_id", author.ID, "error", err)
		return
	}
	event := notifications.FeedEvent{
		Type:      "new_message",
		MessageID: message.ID,
		ActorID:   author.ID,
		ActorName: author.Username,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}
	s.notifier.PublishFeedFanout(ctx, followerIDs, event)
}

// Get returns one message with its author and derived like count. When
// viewerID is nonzero the Liked flag reflects that viewer.
func (s *MessageService) Get(ctx context.Context, messageID, viewerID uint) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.LikeCount, err = s.likeRepo.CountForMessage(ctx, messageID); err != nil {
		return nil, err
	}
	if viewerID != 0 {
		if message.Liked, err = s.likeRepo.Exists(ctx, viewerID, messageID); err != nil {
			return nil, err
		}
	}
	return message, nil
}

// ListByUser returns a user's own messages, newest first, with like counts.
func (s *MessageService) ListByUser(ctx context.Context, userID, viewerID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, messages, viewerID)
}

// Delete removes a message and its likes. Only the author may delete their
// message; anyone else gets Unauthorized regardless of the message's state.
func (s *MessageService) Delete(ctx context.Context, messageID, requesterID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID != requesterID {
		return models.NewUnauthorizedError("only the author can delete a message")
	}

	affected, err := s.messageRepo.DeleteWithLikes(ctx, messageID)
	if err != nil {
		return err
	}
	switch {
	case affected == 0:
		return models.NewNotFoundError("message", messageID)
	case affected > 1:
		slog.ErrorContext(ctx, "duplicate message rows removed", "message_id", messageID, "rows", affected)
		observability.IntegrityFaults.WithLabelValues("message").Inc()
		return models.NewIntegrityFaultError(fmt.Sprintf("message delete affected %d rows", affected))
	}
	slog.InfoContext(ctx, "message deleted", "message_id", messageID, "user_id", requesterID)
	return nil
}

// decorate attaches derived like counts, and liked flags for the viewer, to
// a batch of messages.
func (s *MessageService) decorate(ctx context.Context, messages []models.Message, viewerID uint) ([]models.Message, error) {
	if len(messages) == 0 {
		return messages, nil
	}
	ids := make([]uint, len(messages))
	for i := range messages {
		ids[i] = messages[i].ID
	}
	counts, err := s.likeRepo.CountsForMessages(ctx, ids)
	if err != nil {
		return nil, err
	}
	var liked map[uint]bool
	if viewerID != 0 {
		if liked, err = s.likeRepo.LikedSet(ctx, viewerID, ids); err != nil {
			return nil, err
		}
	}
	for i := range messages {
		messages[i].LikeCount = counts[messages[i].ID]
		if liked != nil {
			messages[i].Liked = liked[messages[i].ID]
		}
	}
	return messages, nil
}
