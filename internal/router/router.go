package router

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskboard/internal/config"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/handler"
	"taskboard/internal/ratelimit"
	"taskboard/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	loginLimiter *ratelimit.Limiter,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// The SPA runs on another origin; the session cookie only travels when
	// credentials are allowed for it.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept, "X-XSRF-TOKEN", "X-Requested-With"},
		AllowCredentials: true,
	}))

	e.Validator = NewCustomValidator()

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Double-submit cookie: the readable XSRF-TOKEN cookie is echoed back in
	// the X-XSRF-TOKEN header on every mutating request.
	api.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-XSRF-TOKEN",
		CookieName:     "XSRF-TOKEN",
		CookiePath:     "/",
		CookieSecure:   cfg.SecureCookies,
		CookieHTTPOnly: false,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true, "service": "taskboard"})
	})

	// Exists solely so the SPA can obtain the XSRF-TOKEN cookie before its
	// first mutating request.
	api.GET("/csrf-cookie", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	api.POST("/auth/login", authHandler.Login,
		loginThrottle(loginLimiter, cfg.LoginRateLimit, cfg.LoginRateWindow))

	// Secured routes (require an active session)
	secured := api.Group("", handler.SessionAuth(authService, cfg.SessionCookieName))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)

	secured.GET("/tasks", taskHandler.List)
	secured.POST("/tasks", taskHandler.Create)
	secured.GET("/tasks/:id", taskHandler.Show)
	secured.PATCH("/tasks/:id", taskHandler.Update)
	secured.DELETE("/tasks/:id", taskHandler.Delete)
}

// loginThrottle bounds login attempts per client IP. Attempts over the limit
// fail before any credential check runs.
func loginThrottle(limiter *ratelimit.Limiter, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := limiter.Allow(c.Request().Context(), c.RealIP(), limit, window)
			if err == nil && !allowed {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrRateLimited)
				return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator builds the validator, reporting fields under their
// json/query tag names so error bodies match the wire shape.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
