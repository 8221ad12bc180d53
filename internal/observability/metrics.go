// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesPosted counts messages successfully created.
	MessagesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_messages_posted_total",
		Help: "Total number of messages posted",
	})

	// FollowEvents counts follow-graph mutations by action (follow/unfollow).
	FollowEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_follow_events_total",
		Help: "Total number of follow graph mutations by action",
	}, []string{"action"})

	// LikeEvents counts engagement mutations by action (like/unlike).
	LikeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_like_events_total",
		Help: "Total number of like mutations by action",
	}, []string{"action"})

	// IntegrityFaults counts broken internal invariants by entity. Any
	// nonzero value here indicates corrupted data that needs operator
	// attention; these are logged at error level as well.
	IntegrityFaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_integrity_faults_total",
		Help: "Total number of detected data-integrity faults by entity",
	}, []string{"entity"})

	// TimelineLatency records timeline assembly latency in seconds.
	TimelineLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warbler_timeline_latency_seconds",
		Help:    "Timeline query latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// AccountDeletions counts explicit account deletions (cascading).
	AccountDeletions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_account_deletions_total",
		Help: "Total number of account deletions",
	})

	// WebSocketDrops counts feed events dropped on the websocket path,
	// labeled by reason (full buffer or closed connection).
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_websocket_drops_total",
		Help: "Total number of websocket messages dropped by reason",
	}, []string{"reason"})
)

// ObserveTimeline records the latency of a timeline query.
func ObserveTimeline(start time.Time) {
	TimelineLatency.Observe(time.Since(start).Seconds())
}
