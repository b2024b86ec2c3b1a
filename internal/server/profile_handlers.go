package server

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"devconnect/internal/models"
	"devconnect/internal/service"
)

// GetProfiles handles GET /api/profile
// @Summary List profiles
// @Tags profile
// @Produce json
// @Success 200 {array} models.Profile
// @Router /profile [get]
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.List(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profiles)
}

// GetMyProfile handles GET /api/profile/me
// @Summary Own profile
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetByUser(c.UserContext(), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// GetProfileByUser handles GET /api/profile/user/:id
// @Summary Profile by user
// @Tags profile
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/user/{id} [get]
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "Profile not found")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetByUser(c.UserContext(), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
// @Summary Create or update own profile
// @Description Only non-empty fields are applied; skills is a comma separated list
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.ProfileInput true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Router /profile [post]
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	var req service.ProfileInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.Upsert(c.UserContext(), userID, req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
// @Summary Delete account
// @Description Remove the caller's profile, posts, likes and user record
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} MessageResponse
// @Router /profile [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	if err := s.userService.DeleteAccount(c.UserContext(), userID); err != nil {
		return respond(c, err)
	}
	return c.JSON(MessageResponse{Msg: "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
// @Summary Add experience
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.ExperienceInput true "Experience"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience [put]
func (s *Server) AddExperience(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	var req service.ExperienceInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), userID, req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:id
// @Summary Remove experience
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Experience ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience/{id} [delete]
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	return s.removeEntry(c, s.profileService.RemoveExperience)
}

// AddEducation handles PUT /api/profile/education
// @Summary Add education
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.EducationInput true "Education"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education [put]
func (s *Server) AddEducation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	var req service.EducationInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), userID, req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:id
// @Summary Remove education
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Education ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education/{id} [delete]
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	return s.removeEntry(c, s.profileService.RemoveEducation)
}

type removeFunc func(ctx context.Context, userID uint, id string) (*models.Profile, error)

func (s *Server) removeEntry(c *fiber.Ctx, remove removeFunc) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	profile, err := remove(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}
