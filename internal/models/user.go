// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Default profile images assigned at signup when the client supplies none.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents an account in the Warbler application.
//
// Accounts are hard-deleted: DeleteAccount removes the row and every
// dependent row (messages, likes, follow edges) in one transaction, so
// there is no soft-delete column here.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	ImageURL       string    `gorm:"default:'/static/images/default-pic.png'" json:"image_url"`
	HeaderImageURL string    `gorm:"default:'/static/images/warbler-hero.jpg'" json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:UserID" json:"messages,omitempty"`

	// FollowerCount and FollowingCount are derived from the follows table
	// at query time, never stored.
	FollowerCount  int64 `gorm:"-" json:"follower_count"`
	FollowingCount int64 `gorm:"-" json:"following_count"`
}
