package server

import (
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowAccount handles POST /api/users/:id/follow
// The authenticated account follows the account in the route.
func (s *Server) FollowAccount(c *fiber.Ctx) error {
	followedID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	followerID := currentAccountID(c)
	if followerID == followedID {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewSelfReferenceError())
	}

	outcome, err := s.followService.Follow(c.Context(), followerID, followedID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": string(outcome),
	})
}

// UnfollowAccount handles DELETE /api/users/:id/follow
func (s *Server) UnfollowAccount(c *fiber.Ctx) error {
	followedID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	followerID := currentAccountID(c)
	if followerID == followedID {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewSelfReferenceError())
	}

	if err := s.followService.Unfollow(c.Context(), followerID, followedID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "unfollowed",
	})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followers, err := s.followService.ListFollowers(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"followers": followers,
	})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.ListFollowing(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"following": following,
	})
}

// CountFollowers handles GET /api/users/:id/followers/count
func (s *Server) CountFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.followService.CountFollowers(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

// CountFollowing handles GET /api/users/:id/following/count
func (s *Server) CountFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.followService.CountFollowing(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

// GetSuggestions handles GET /api/users/suggestions
// Suggestions are computed for the authenticated account.
func (s *Server) GetSuggestions(c *fiber.Ctx) error {
	accountID := currentAccountID(c)

	suggestions, err := s.followService.Suggest(c.Context(), accountID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"suggestions": suggestions,
	})
}
