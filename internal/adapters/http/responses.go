package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/ports"
)

// claimsContextKey is where the auth middleware stores validated claims.
const claimsContextKey = "claims"

// actorFromContext returns the authenticated caller. The auth middleware
// guarantees the claims are present on protected routes.
func actorFromContext(c echo.Context) ports.Actor {
	claims, ok := c.Get(claimsContextKey).(*ports.Claims)
	if !ok {
		return ports.Actor{}
	}
	return claims.Actor()
}

// httpError maps domain errors onto HTTP status codes. Unrecognized errors
// become an opaque 500 so internals never leak to clients.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, entities.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	case errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrNotificationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrEmailTaken),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrMissingFields),
		errors.Is(err, entities.ErrWrongPassword):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

// RefreshTokenRequest carries the refresh token presented for rotation.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
