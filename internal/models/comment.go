package models

import "time"

// Comment is an immutable comment on a post. There is no edit or delete
// path; comments only disappear when their post is deleted.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Content string `gorm:"type:text;not null" json:"content"`
	// TimeLabel is the human-readable relative age; "just now" on the create path
	TimeLabel string    `gorm:"-" json:"timestamp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
