package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"meetnotes/backend/internal/logger"
	"meetnotes/backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeServiceError(c echo.Context, err error) error {
	var (
		validationErr *service.ValidationError
		providerErr   *service.ProviderError
		mailErr       *service.MailError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: validationErr.Message})
	case errors.Is(err, service.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.As(err, &providerErr):
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: providerErr.Message})
	case errors.As(err, &mailErr):
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: mailErr.Error()})
	default:
		logger.Error("unhandled service error", "module", "handler", "action", "request", "resource", "http", "result", "failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// Error returns a JSON error response with the given status and message
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}
