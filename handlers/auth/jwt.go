package auth

import (
	"strings"

	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) RefreshAccessToken(c *fiber.Ctx) error {
	refreshHeader := c.Get("X-Refresh-Token")
	if !strings.HasPrefix(refreshHeader, "Bearer ") {
		return utils.NewUnauthorizedError("REFRESH-001", "refresh token missing")
	}
	refresh := strings.TrimPrefix(refreshHeader, "Bearer ")
	if refresh == "" {
		return utils.NewUnauthorizedError("REFRESH-001", "refresh token missing")
	}

	// a still-valid access token does not need refreshing
	if access := strings.TrimPrefix(c.Get("Authorization"), "Bearer "); access != "" {
		if userID, expired := utils.CheckUserToken(access); userID != nil && !expired {
			return utils.NewValidationError("REFRESH-002", "access token is still valid")
		}
	}

	accessToken, refreshToken, err := utils.RefreshAccessToken(refresh)
	if err != nil {
		return utils.NewUnauthorizedError("REFRESH-003", "invalid refresh token")
	}

	if refreshToken != refresh {
		if claims, _, err := utils.VerifyToken(refreshToken, utils.RefreshToken); err == nil {
			if id, err := uuid.Parse(claims.UserID); err == nil {
				if err := h.accounts.SetRefreshToken(c.UserContext(), id, refreshToken); err != nil {
					return utils.NewInternalError("REFRESH-004", "token refresh failed", err)
				}
			}
		}
	}

	return utils.Respond(c, fiber.StatusOK, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	}, "Access token refreshed")
}
