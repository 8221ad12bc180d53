package server

import (
	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users?q=
// @Summary Search users
// @Description List users, optionally filtered by a username substring
// @Tags users
// @Produce json
// @Param q query string false "Username substring"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 25)
	users, err := s.userService.Search(c.UserContext(), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get user profile
// @Description Fetch a user's profile with derived follower counts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} object{error=string}
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Description Edit profile fields; requires the current password
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{current_password=string,username=string,email=string,bio=string,location=string,image_url=string,header_image_url=string} true "Profile changes"
// @Success 200 {object} models.User
// @Failure 401 {object} object{error=string}
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		Username        string `json:"username"`
		Email           string `json:"email"`
		Bio             string `json:"bio"`
		Location        string `json:"location"`
		ImageURL        string `json:"image_url"`
		HeaderImageURL  string `json:"header_image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:          currentUserID(c),
		CurrentPassword: req.CurrentPassword,
		Username:        req.Username,
		Email:           req.Email,
		Bio:             req.Bio,
		Location:        req.Location,
		ImageURL:        req.ImageURL,
		HeaderImageURL:  req.HeaderImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/me
// @Summary Delete own account
// @Description Remove the account and everything it owns in one transaction
// @Tags users
// @Success 204
// @Router /users/me [delete]
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.UserContext(), currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserMessages handles GET /api/users/:id/messages
func (s *Server) GetUserMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 25)
	messages, err := s.messageService.ListByUser(c.UserContext(), id, currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}

// GetUserLikes handles GET /api/users/:id/likes
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 25)
	messages, err := s.likeService.LikedMessages(c.UserContext(), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}
