package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codesnip/gatekeeper/internal/apperrors"
)

type errorBody struct {
	Error string `json:"error"`
}

// errorResponse writes a JSON error body with the given status
func errorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, errorBody{Error: message})
}

// domainError maps domain errors to HTTP statuses.
// Anything unrecognized is treated as a storage failure.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotOwner):
		return errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrGranteeIsOwner):
		return errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInvalidPermissionLevel):
		return errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrPermissionNotFound):
		return errorResponse(c, http.StatusNotFound, err.Error())
	default:
		return errorResponse(c, http.StatusServiceUnavailable, "authorization service unavailable")
	}
}
