// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User represents a registered Studygram account.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"not null" json:"firstname"`
	LastName  string `gorm:"not null" json:"lastname"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Avatar    string `json:"avatar,omitempty"`
	// Username is not persisted; derived from the email address at read time.
	Username  string    `gorm:"-" json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Handle returns the display username derived from the email address:
// everything before the first '@'. "sarah.j@example.com" -> "sarah.j".
func (u *User) Handle() string {
	if i := strings.Index(u.Email, "@"); i >= 0 {
		return u.Email[:i]
	}
	return u.Email
}

// DisplayName returns the user's full name for composed views.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
