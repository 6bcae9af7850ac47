package handlers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// envelope is the response body shape shared by every endpoint.
type envelope map[string]interface{}

// respondOK writes the success envelope with extra payload fields merged in.
func respondOK(c echo.Context, status int, fields envelope) error {
	body := envelope{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(status, body)
}

// respondError writes the failure envelope with a caller-safe message.
func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{"ok": false, "error": message})
}

// artisanIDFromContext reads the authenticated artisan id set by JWTAuth.
func artisanIDFromContext(c echo.Context) (uuid.UUID, bool) {
	raw, ok := c.Get("artisan_id").(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
