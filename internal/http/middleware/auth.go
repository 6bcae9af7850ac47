package middleware

import (
	"net/http"
	"strings"

	"artisania/internal/auth"

	"github.com/labstack/echo/v4"
)

// JWTAuth middleware validates JWT tokens
func JWTAuth(authService *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized(c, "Missing authorization header")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return unauthorized(c, "Invalid authorization header format")
			}

			tokenString := authHeader[7:]
			if tokenString == "" {
				return unauthorized(c, "Missing token")
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				return unauthorized(c, "Invalid token")
			}

			c.Set("claims", claims)
			c.Set("artisan_id", claims.ArtisanID.String())
			c.Set("artisan_email", claims.Email)

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{
		"ok":    false,
		"error": message,
	})
}
