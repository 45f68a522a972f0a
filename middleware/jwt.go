package middlewares

import (
	"strings"

	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/gofiber/fiber/v2"
)

func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return utils.NewUnauthorizedError("AUTH-001", "missing or malformed access token")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		userID, expired := utils.CheckUserToken(token)

		if userID == nil {
			return utils.NewUnauthorizedError("AUTH-002", "invalid token or unknown user")
		}
		if expired {
			return utils.NewUnauthorizedError("AUTH-003", "access token expired, refresh it")
		}

		c.Locals("user_id", userID)

		return c.Next()
	}
}
