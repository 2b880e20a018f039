// Package middleware contains reusable HTTP middleware: bearer-token
// authentication, the redis response cache and the redis token-bucket rate
// limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"mechanic-shop-api/internal/utils"
)

// MechanicIDKey is the context key under which JWTAuth stores the
// authenticated mechanic's id for the duration of the request.
const MechanicIDKey = "mechanic_id"

// JWTAuth validates the Authorization header before the wrapped handler
// runs. The header must carry exactly "Bearer " followed by the token;
// anything else is rejected with 401. On success the mechanic id recovered
// from the token is stored in the request context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid Authorization header"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			id, err := utils.ParseToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			c.Set(MechanicIDKey, id)
			return next(c)
		}
	}
}
