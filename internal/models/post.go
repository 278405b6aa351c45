package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a user-authored feed entry.
//
// Likes and Comments are loaded alongside the post on every read;
// LikeCount and CommentCount are derived from them at load time and are
// never persisted, so the counts cannot drift from the underlying
// collections.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AuthorID  uint           `gorm:"not null;index" json:"authorId"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	Image     *string        `json:"image"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Likes holds the IDs of users who liked this post (unique membership).
	Likes     []uint `gorm:"-" json:"likes"`
	LikeCount int    `gorm:"-" json:"likeCount"`

	// Comments are returned in insertion order.
	Comments     []Comment `gorm:"foreignKey:PostID" json:"comments"`
	CommentCount int       `gorm:"-" json:"commentCount"`
}

// SyncCounts recomputes the derived counters from the loaded collections.
func (p *Post) SyncCounts() {
	if p.Likes == nil {
		p.Likes = []uint{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	p.LikeCount = len(p.Likes)
	p.CommentCount = len(p.Comments)
}
