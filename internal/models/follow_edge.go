package models

import (
	"time"
)

// FollowEdge represents a directed follow relationship between two accounts.
// A pair gets exactly one row, reused across follow/unfollow/refollow cycles:
// unfollowing flips IsFollowing instead of deleting the row, and a later
// refollow reactivates it. The FKs are RESTRICT so deleting an account with
// edge history fails at the storage boundary rather than orphaning rows.
type FollowEdge struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	FollowerID    uint       `gorm:"not null;uniqueIndex:idx_follow_edge_pair" json:"follower_id"`
	FollowedID    uint       `gorm:"not null;uniqueIndex:idx_follow_edge_pair" json:"followed_id"`
	IsFollowing   bool       `gorm:"not null;default:true;index" json:"is_following"`
	FollowingDate time.Time  `gorm:"not null" json:"following_date"`
	UnfollowDate  *time.Time `json:"unfollow_date,omitempty"`

	Follower Account `gorm:"foreignKey:FollowerID;constraint:OnDelete:RESTRICT" json:"follower,omitempty"`
	Followed Account `gorm:"foreignKey:FollowedID;constraint:OnDelete:RESTRICT" json:"followed,omitempty"`
}

// TableName specifies the table name for GORM
func (FollowEdge) TableName() string {
	return "follow_edges"
}
