package server

import (
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PostMessage handles POST /api/messages
// @Summary Post a message
// @Description Create a new message of at most 140 characters
// @Tags messages
// @Accept json
// @Produce json
// @Param request body object{text=string} true "Message text"
// @Success 201 {object} models.Message
// @Failure 400 {object} object{error=string}
// @Router /messages [post]
func (s *Server) PostMessage(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	message, err := s.messageService.Post(c.UserContext(), currentUserID(c), req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetMessage handles GET /api/messages/:id
// @Summary Get a message
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} object{error=string}
// @Router /messages/{id} [get]
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)
	message, err := s.messageService.Get(c.UserContext(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(message)
}

// DeleteMessage handles DELETE /api/messages/:id
// @Summary Delete a message
// @Description Remove a message and its likes; author only
// @Tags messages
// @Param id path int true "Message ID"
// @Success 204
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /messages/{id} [delete]
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.messageService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeMessage handles POST /api/messages/:id/like
// @Summary Like a message
// @Tags likes
// @Param id path int true "Message ID"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /messages/{id}/like [post]
func (s *Server) LikeMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.likeService.Like(c.UserContext(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnlikeMessage handles DELETE /api/messages/:id/like
// @Summary Unlike a message
// @Tags likes
// @Param id path int true "Message ID"
// @Success 204
// @Failure 409 {object} object{error=string}
// @Router /messages/{id}/like [delete]
func (s *Server) UnlikeMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.likeService.Unlike(c.UserContext(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
