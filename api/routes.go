package api

import (
	"github.com/Romain-GUILLEMOT/TubeBack/handlers"
	"github.com/Romain-GUILLEMOT/TubeBack/handlers/auth"
	middlewares "github.com/Romain-GUILLEMOT/TubeBack/middleware"
	"github.com/Romain-GUILLEMOT/TubeBack/registration"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Auth      *auth.Handler
	Users     *handlers.UserHandler
	UploadDir string
}

func SetupRoutes(app *fiber.App, d Deps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	router := app.Group("/api")
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("✅ API healthy")
	})

	users := router.Group("/users")
	UserRoutes(users, d)
}

func UserRoutes(router fiber.Router, d Deps) {
	router.Post("/register", middlewares.StageUploads(d.UploadDir, registration.Fields()...), d.Auth.RegisterUser)
	router.Post("/login", d.Auth.LoginUser)
	router.Get("/refresh", d.Auth.RefreshAccessToken)
	router.Get("/me", middlewares.RequireAuth(), d.Users.Me)
}
