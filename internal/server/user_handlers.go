package server

import (
	"github.com/gofiber/fiber/v2"

	"devconnect/internal/service"
)

// Register handles POST /api/users
// @Summary Register user
// @Description Create an account and return a credential
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} object{error=string}
// @Router /users [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(TokenResponse{Token: token})
}

// Login handles POST /api/auth
// @Summary Authenticate user
// @Description Exchange e-mail and password for a credential
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.userService.Authenticate(c.UserContext(), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(TokenResponse{Token: token})
}

// GetCurrentUser handles GET /api/auth
// @Summary Current user
// @Description Return the authenticated user's record
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth [get]
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	user, err := s.userService.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(user)
}
