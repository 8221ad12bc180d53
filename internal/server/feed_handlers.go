package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
// @Summary Home timeline
// @Description Newest messages from the user and everyone they follow
// @Tags feed
// @Produce json
// @Param limit query int false "Max messages (default and cap 100)"
// @Success 200 {array} models.Message
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	messages, err := s.feedService.Timeline(c.UserContext(), currentUserID(c), limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}
