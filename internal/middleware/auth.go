package middleware

import (
	"net/http"
	"strings"

	"auction-backoffice/internal/apperror"
	"auction-backoffice/internal/authz"
	"auction-backoffice/pkg/logger"
	"auction-backoffice/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	claimsContextKey      = "claims"
	bearerTokenContextKey = "bearer_token"
)

// TokenValidator validates a bearer token string into caller claims.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*authz.Claims, error)
}

// Auth validates the JWT bearer token from the Authorization header and
// stores the typed claims in the request context.
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			token, err := BearerToken(c)
			if err != nil {
				log.Error("Missing or malformed Authorization header", zap.Error(err))
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperror.MessageOf(err)})
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				log.Error("Invalid access token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(apperror.StatusOf(err), echo.Map{"error": apperror.MessageOf(err)})
			}

			c.Set(claimsContextKey, claims)
			c.Set(bearerTokenContextKey, token)

			return next(c)
		}
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", apperror.New(apperror.KindAuthentication, "missing authorization token")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperror.New(apperror.KindAuthentication, "invalid authorization format, expected Bearer token")
	}
	return parts[1], nil
}

// ClaimsFromContext returns the claims stored by the Auth middleware.
func ClaimsFromContext(c echo.Context) (*authz.Claims, error) {
	claims, ok := c.Get(claimsContextKey).(*authz.Claims)
	if !ok {
		return nil, apperror.New(apperror.KindAuthentication, "authentication required")
	}
	return claims, nil
}
