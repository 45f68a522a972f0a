package handlers

import (
	"context"

	"github.com/Romain-GUILLEMOT/TubeBack/models"
	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PublicUser, error)
}

type UserHandler struct {
	users UserReader
}

func NewUserHandler(users UserReader) *UserHandler {
	return &UserHandler{users: users}
}

// Me must run behind middlewares.RequireAuth.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(*uuid.UUID)
	if !ok || userID == nil {
		return utils.NewUnauthorizedError("ME-001", "not authenticated")
	}

	user, err := h.users.FindByID(c.UserContext(), *userID)
	if err != nil {
		return utils.NewInternalError("ME-002", "could not load user", err)
	}
	if user == nil {
		return utils.NewUnauthorizedError("ME-003", "not authenticated")
	}

	return utils.Respond(c, fiber.StatusOK, user, "User fetched successfully")
}
