package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/eduvision/expenses/internal/auth"
	"github.com/eduvision/expenses/internal/service"
	"github.com/eduvision/expenses/internal/storage"
)

// apiErrorHandler maps domain errors onto the status-code taxonomy:
// 400 malformed input, 401 unauthenticated, 403 unauthorized, 404 missing,
// 500 anything else. Unexpected errors are logged server-side and surfaced
// as a generic message so internals never leak to clients.
func apiErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(http.StatusInternalServerError)

	var httpErr *echo.HTTPError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	case errors.As(err, &fieldErrs):
		code = http.StatusBadRequest
		message = "validation failed on field " + fieldErrs[0].Field()
	case errors.Is(err, service.ErrInvalid),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrEmailExists):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		code = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, service.ErrForbidden):
		code = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	default:
		slog.Error("Unhandled request error",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	if writeErr := c.JSON(code, echo.Map{"error": message}); writeErr != nil {
		slog.Error("Failed to write error response", "error", writeErr)
	}
}
