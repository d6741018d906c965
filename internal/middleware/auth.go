package middleware

import (
	"net/http"
	"strings"

	"adriarent/internal/domain/models"
	"adriarent/internal/lib/jwt"
	"adriarent/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Auth validates the bearer token and stores the caller's identity in the
// echo context. With required=false the request proceeds anonymously when no
// token is present; a present-but-invalid token is rejected either way.
func Auth(secret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				if required {
					return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
				}
				return next(c)
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
			}

			identity, err := jwt.ParseIdentity(token, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := CurrentIdentity(c)
		if !ok || !identity.IsAdmin() {
			return c.JSON(http.StatusForbidden, response.ErrForbidden)
		}
		return next(c)
	}
}

// CurrentIdentity returns the caller stored by Auth, if any.
func CurrentIdentity(c echo.Context) (models.Identity, bool) {
	identity, ok := c.Get(identityKey).(models.Identity)
	return identity, ok
}
