package service

import (
	"context"
	"time"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

const (
	// DefaultTimelineLimit is the number of messages returned when the
	// client does not ask for a specific count.
	DefaultTimelineLimit = 100
	// MaxTimelineLimit caps how many messages one timeline request returns.
	MaxTimelineLimit = 100
)

type FeedService struct {
	messageRepo repository.MessageRepository
	likeRepo    repository.LikeRepository
}

func NewFeedService(messageRepo repository.MessageRepository, likeRepo repository.LikeRepository) *FeedService {
	return &FeedService{messageRepo: messageRepo, likeRepo: likeRepo}
}

// Timeline assembles the home feed for a user: their own messages plus those
// of everyone they follow, newest first. The query runs as one statement, so
// the result is a consistent snapshot even while follows change underneath.
func (s *FeedService) Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	if limit > MaxTimelineLimit {
		limit = MaxTimelineLimit
	}

	start := time.Now()
	messages, err := s.messageRepo.Timeline(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	observability.ObserveTimeline(start)

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
	liked, err := s.likeRepo.LikedSet(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].LikeCount = counts[messages[i].ID]
		messages[i].Liked = liked[messages[i].ID]
	}
	return messages, nil
}
