package models

import (
	"time"
)

// MaxMessageLength is the hard bound on message text, matching the
// varchar(140) column.
const MaxMessageLength = 140

// Message is an individual post ("warble") authored by a user.
type Message struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Text   string `gorm:"type:varchar(140);not null" json:"text"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// CreatedAt is assigned server-side at creation and never updated;
	// it is the timeline ordering key.
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// LikeCount is computed at query time, never stored.
	LikeCount int64 `gorm:"-" json:"like_count"`
	// Liked indicates whether the requesting user liked this message (computed).
	Liked bool `gorm:"-" json:"liked"`
}
