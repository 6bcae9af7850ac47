package handlers

import (
	"errors"
	"net/http"

	"artisania/internal/auth"
	"artisania/pkg/models"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication and account endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new artisan account
func (h *AuthHandler) Register(c echo.Context) error {
	var req auth.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request")
	}

	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	token, artisan, err := h.authService.Register(req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return respondError(c, http.StatusConflict, err.Error())
		}
		return respondError(c, http.StatusInternalServerError, "Failed to create account")
	}

	return respondOK(c, http.StatusCreated, envelope{
		"token":   token,
		"artisan": artisan,
	})
}

// Login authenticates an artisan
func (h *AuthHandler) Login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request")
	}

	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	token, artisan, err := h.authService.Login(req)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Invalid email or password")
	}

	return respondOK(c, http.StatusOK, envelope{
		"token":   token,
		"artisan": artisan,
	})
}

// GetProfile returns the authenticated artisan's account
func (h *AuthHandler) GetProfile(c echo.Context) error {
	artisanID, ok := artisanIDFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "Invalid token")
	}

	artisan, err := h.authService.GetAccount(artisanID)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Account not found")
	}

	return respondOK(c, http.StatusOK, envelope{"artisan": artisan})
}

// UpdateProfile updates the authenticated artisan's editable fields
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	artisanID, ok := artisanIDFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "Invalid token")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request")
	}

	artisan, err := h.authService.UpdateProfile(artisanID, req)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			return respondError(c, http.StatusNotFound, "Account not found")
		}
		return respondError(c, http.StatusInternalServerError, "Failed to update profile")
	}

	return respondOK(c, http.StatusOK, envelope{"artisan": artisan})
}
