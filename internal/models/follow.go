package models

import (
	"time"
)

// Follow is a directed edge meaning the follower sees the followed user's
// messages in their timeline. The (FollowerID, FollowingID) pair is unique
// and self-edges are rejected by a CHECK constraint as well as by the
// service layer.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;index;uniqueIndex:idx_follower_following;check:chk_no_self_follow,follower_id <> following_id" json:"follower_id"`
	FollowingID uint      `gorm:"not null;index;uniqueIndex:idx_follower_following" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
