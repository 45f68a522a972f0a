package auth

import (
	"github.com/Romain-GUILLEMOT/TubeBack/config"
	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/gofiber/fiber/v2"
)

type LoginUserInput struct {
	Login    string `json:"login" form:"login" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (h *Handler) LoginUser(c *fiber.Ctx) error {
	var input LoginUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.NewValidationError("LOGIN-001", "invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return utils.NewValidationError("LOGIN-002", "login and password are required")
	}

	ctx := c.UserContext()
	user, err := h.accounts.FindByLogin(ctx, input.Login)
	if err != nil {
		return utils.NewInternalError("LOGIN-007", "login failed", err)
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		return utils.NewUnauthorizedError("LOGIN-003", "invalid credentials")
	}

	deviceID := utils.GenerateDeviceID(
		c.Get("User-Agent"),
		c.Get("Accept"),
		c.Get("Accept-Language"),
		c.Get("Accept-Encoding"),
		c.IP(),
	)

	accessToken, err := utils.GenerateAccessToken(user.ID.String(), deviceID)
	if err != nil {
		return utils.NewInternalError("LOGIN-005", "login failed", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID.String(), deviceID)
	if err != nil {
		return utils.NewInternalError("LOGIN-006", "login failed", err)
	}
	if err := h.accounts.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return utils.NewInternalError("LOGIN-008", "login failed", err)
	}

	data := fiber.Map{
		"user":          user.Public(),
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	}
	if config.GetConfig().Debug {
		data["device_id"] = deviceID
	}

	return utils.Respond(c, fiber.StatusOK, data, "User logged in successfully")
}
