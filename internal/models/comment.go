package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a reply attached to exactly one post.
//
// AuthorName is a point-in-time snapshot of the author's display name
// taken when the comment is created. It is intentionally not kept in
// sync with later profile changes.
type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	PostID     uint           `gorm:"not null;index" json:"postId"`
	AuthorID   uint           `gorm:"not null" json:"authorId"`
	AuthorName string         `gorm:"not null" json:"authorDisplayName"`
	Text       string         `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time      `json:"createdAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
