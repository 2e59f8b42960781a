package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskboard/internal/service"
)

// SessionCookieConfig describes the cookie that carries the session id.
type SessionCookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookies     SessionCookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookies SessionCookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse wraps the public profile of the caller.
type UserResponse struct {
	User interface{} `json:"user"`
}

// Login godoc
// @Summary Log in with email and password
// @Description Establishes a cookie session. Administrators are rejected; they use the admin panel.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} UserResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondFieldError(c, "email", "The request body is malformed.")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	user, sessionID, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	// Replace any session the caller already holds.
	if old := readSessionCookie(c, h.cookies.Name); old != "" {
		_ = h.authService.Logout(c.Request().Context(), old)
	}
	c.SetCookie(h.sessionCookie(sessionID, h.cookies.TTL))

	return c.JSON(http.StatusOK, UserResponse{User: user.Profile()})
}

// Me godoc
// @Summary Return the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := CurrentUser(c)
	return c.JSON(http.StatusOK, UserResponse{User: user.Profile()})
}

// Logout godoc
// @Summary Invalidate the current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID := readSessionCookie(c, h.cookies.Name)
	if err := h.authService.Logout(c.Request().Context(), sessionID); err != nil {
		return respondError(c, err)
	}

	// Expire the cookie client-side as well.
	c.SetCookie(h.sessionCookie("", -time.Hour))

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookies.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
