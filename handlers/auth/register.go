package auth

import (
	"context"
	"strings"

	middlewares "github.com/Romain-GUILLEMOT/TubeBack/middleware"
	"github.com/Romain-GUILLEMOT/TubeBack/models"
	"github.com/Romain-GUILLEMOT/TubeBack/registration"
	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

type Registrar interface {
	Register(ctx context.Context, in registration.Input) (*models.PublicUser, error)
}

// Accounts is the part of the user store the login flow needs.
type Accounts interface {
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
}

type Handler struct {
	registrar Registrar
	accounts  Accounts
}

func NewHandler(registrar Registrar, accounts Accounts) *Handler {
	return &Handler{registrar: registrar, accounts: accounts}
}

// RegisterUser expects a multipart form already passed through
// middlewares.StageUploads for the avatar and coverImage fields. Form values
// are cloned: fiber reuses their memory once the handler returns.
func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	input := registration.Input{
		Fullname: strings.Clone(c.FormValue("fullname")),
		Email:    strings.Clone(c.FormValue("email")),
		Username: strings.Clone(c.FormValue("username")),
		Password: strings.Clone(c.FormValue("password")),
		Files:    middlewares.StagedFiles(c),
	}

	user, err := h.registrar.Register(c.UserContext(), input)
	if err != nil {
		return err
	}

	return utils.Respond(c, fiber.StatusCreated, user, "User registered successfully")
}
