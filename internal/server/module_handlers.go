// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"studygram/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetModules returns the module catalogue grouped by type (public)
func (s *Server) GetModules(c *fiber.Ctx) error {
	groups, err := s.moduleService.ListGrouped(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(groups)
}
