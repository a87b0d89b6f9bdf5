package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetAccounts handles GET /api/users
func (s *Server) GetAccounts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	accounts, err := s.accountService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":  accounts,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetAccount handles GET /api/users/:id
func (s *Server) GetAccount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	account, err := s.accountService.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": account,
	})
}

// DisableAccount handles PUT /api/users/:id/disable
func (s *Server) DisableAccount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	account, err := s.accountService.Disable(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": account,
	})
}

// DeleteAccount handles DELETE /api/users/:id
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.accountService.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}
