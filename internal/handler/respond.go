package handler

import (
	"auction-backoffice/internal/apperror"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// respondError maps an application error onto its HTTP status with a
// client-safe message. Internal detail stays in the logs.
func respondError(c echo.Context, err error) error {
	return c.JSON(apperror.StatusOf(err), echo.Map{"error": apperror.MessageOf(err)})
}

// parseUUIDParam parses a path parameter as a UUID.
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	value, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Wrap(apperror.KindBadRequest, "invalid "+name, err)
	}
	return value, nil
}
