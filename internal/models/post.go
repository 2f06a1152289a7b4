package models

import "time"

// Post represents a shared study-material post tagged to a module.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	ModuleID uint   `gorm:"not null;index" json:"module_id"`
	Module   Module `gorm:"foreignKey:ModuleID" json:"module"`
	Files    []File `gorm:"foreignKey:PostID" json:"files"`
	// LikesCount is not persisted; computed per read, never stored with the row
	LikesCount int `gorm:"-" json:"likes_count"`
	// CommentsCount is not persisted; computed per read
	CommentsCount int `gorm:"-" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"-" json:"liked"`
	// TimeLabel is the human-readable relative age ("just now", "3 hours ago")
	TimeLabel string    `gorm:"-" json:"timestamp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
