package repository

import (
	"studygram/internal/database"

	"gorm.io/gorm"
)

// readDB routes read-only queries (feed pages, catalogue, profile lookups)
// to the read replica when one is configured. Writes always go to primary.
func readDB(primary *gorm.DB) *gorm.DB {
	if replica := database.GetReadDB(); replica != nil {
		return replica
	}
	return primary
}
