package utils

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Romain-GUILLEMOT/TubeBack/config"
	"github.com/gofiber/fiber/v2"
)

func SendErrorMail(code, file, content, extra string) {
	cfg := config.GetConfig()
	if cfg.ErrorReportEmail == "" || !cfg.MailEnabled() {
		return
	}

	full := fmt.Sprintf(
		"Error code: %s\n\nFile: %s\n\nDetails:\n%s\n\nExtra:\n%s",
		code, file, content, extra,
	)

	_ = SendMail(cfg.ErrorReportEmail, "🚨 Error ["+code+"]", full)
}

func HandlePanic() {
	if r := recover(); r != nil {
		code := fmt.Sprintf("777-%d", time.Now().Unix()%1000)
		stack := string(debug.Stack())
		SendErrorMail(code, "global", fmt.Sprintf("%v\n\nStacktrace:\n%s", r, stack), "")
		Fatal("Application crashed", "code", code, "reason", r)
	}
}

func ReportError(err error, file, shortCode string, extra string) {
	if err == nil {
		return
	}
	code := fmt.Sprintf("888-%s", shortCode)
	SendErrorMail(code, file, err.Error(), extra)
	Error("Handled error", "code", code, "err", err)
}

// NewErrorHandler returns the fiber.Config ErrorHandler. Every handler error
// goes through it; handlers never write error bodies themselves. Internal
// errors are mailed to ERROR_REPORT_EMAIL when report is true.
func NewErrorHandler(report bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := errorBody{
			StatusCode: fiber.StatusInternalServerError,
			Message:    "internal server error",
		}

		var apiErr *APIError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &apiErr):
			body.StatusCode = apiErr.StatusCode()
			body.Message = apiErr.Message
			body.Code = apiErr.Code
		case errors.As(err, &fiberErr):
			body.StatusCode = fiberErr.Code
			body.Message = fiberErr.Message
		}

		if body.StatusCode >= fiber.StatusInternalServerError {
			Error("Request failed", "method", c.Method(), "path", c.Path(), "err", err)
			if report {
				path := strings.Clone(c.Path())
				go ReportError(err, path, body.Code, c.Method()+" "+c.OriginalURL())
			}
		} else {
			Warn("Request rejected", "path", c.Path(), "status", body.StatusCode, "err", err)
		}

		return c.Status(body.StatusCode).JSON(body)
	}
}
