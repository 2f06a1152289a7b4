package models

import "time"

// File is an attachment row belonging to a post. The blob itself lives in
// the object store under StoragePath; FileURL is the public download URL.
type File struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	FileName string `gorm:"not null" json:"file_name"`
	FileURL  string `gorm:"not null" json:"file_url"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
	Version  int    `gorm:"not null;default:1" json:"version"`
	// StoragePath is the object-store key; internal, never exposed.
	StoragePath string    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
