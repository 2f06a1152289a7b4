package database

import "studygram/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Module{},
		&models.Post{},
		&models.File{},
		&models.Like{},
		&models.Comment{},
	}
}
