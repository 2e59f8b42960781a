package handler

import (
	"github.com/labstack/echo/v4"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

const contextUserKey = "user"

// SessionAuth resolves the caller from the session cookie and stores the user
// in the request context. Requests without a valid session get a uniform 401
// no matter which protected endpoint they hit.
func SessionAuth(authService service.AuthService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := readSessionCookie(c, cookieName)

			user, err := authService.CurrentUser(c.Request().Context(), sessionID)
			if err != nil {
				return respondError(c, err)
			}

			c.Set(contextUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user placed by SessionAuth, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(contextUserKey).(*model.User)
	return user
}

func readSessionCookie(c echo.Context, cookieName string) string {
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
