// Package notifications delivers real-time feed events to connected clients.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// FeedEvent is the payload pushed to a user's feed channel when someone they
// follow posts, or when their own social graph changes.
type FeedEvent struct {
	Type      string    `json:"type"` // "new_message", "new_follower"
	MessageID uint      `json:"message_id,omitempty"`
	ActorID   uint      `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier publishes feed events into per-user Redis channels. A nil Redis
// client disables publishing, so the write path never depends on Redis being
// up.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishFeed sends a feed event to one user's channel.
func (n *Notifier) PublishFeed(ctx context.Context, userID uint, event FeedEvent) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}
	return n.rdb.Publish(ctx, FeedChannel(userID), payload).Err()
}

// PublishFeedFanout sends the same event to many users' channels. Failures
// on individual channels are logged and skipped so one bad publish does not
// stop the fan-out.
func (n *Notifier) PublishFeedFanout(ctx context.Context, userIDs []uint, event FeedEvent) {
	if n.rdb == nil {
		return
	}
	for _, id := range userIDs {
		if err := n.PublishFeed(ctx, id, event); err != nil {
			slog.WarnContext(ctx, "feed fan-out publish failed", "user_id", id, "error", err)
		}
	}
}

// StartFeedSubscriber subscribes to the pattern `feed:user:*` and calls
// onMessage for each incoming event. It returns after the subscription is
// established; delivery runs on a background goroutine until ctx is done.
func (n *Notifier) StartFeedSubscriber(
	ctx context.Context, onMessage func(channel, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "feed:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							slog.Error("panic in feed subscriber", "panic", r, "stack", string(debug.Stack()))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// FeedChannel derives the Redis channel name for a user's feed.
func FeedChannel(userID uint) string {
	return "feed:user:" + strconv.FormatUint(uint64(userID), 10)
}
