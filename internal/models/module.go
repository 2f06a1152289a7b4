package models

import "time"

// Module is a static academic module that posts are tagged with.
// The catalogue is reference data seeded at bootstrap, not user-mutable.
type Module struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	Type      string    `gorm:"not null;index" json:"type"`
	Credits   int       `json:"credits"`
	Semester  int       `json:"semester"`
	CreatedAt time.Time `json:"created_at"`
}
