package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"lixi/internal/auth"
	"lixi/internal/cache"
	"lixi/internal/config"
	"lixi/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	cacheClient *cache.Client,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	luckyMoneyHandler *handler.LuckyMoneyHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		if err := cacheClient.Ping(c.Request().Context()); err != nil {
			return c.String(http.StatusOK, "ok (cache unavailable)")
		}
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/admin/register", authHandler.RegisterAdmin)
	api.POST("/auth/admin/login", authHandler.AdminLogin)
	api.POST("/auth/user/login", authHandler.UserLogin)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes. Tokens are parsed by our own JWT service so handlers see
	// *auth.Claims on the context.
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
	})

	// User routes (draw lifecycle)
	lucky := api.Group("/lucky", jwtMiddleware, RequireRole(auth.RoleUser))
	lucky.GET("/config", luckyMoneyHandler.GetConfig)
	lucky.GET("/status", luckyMoneyHandler.GetStatus)
	lucky.POST("/draw", luckyMoneyHandler.Draw)
	lucky.POST("/bank-info", luckyMoneyHandler.SubmitBankInfo)

	// Admin routes (user management)
	admin := api.Group("/admin", jwtMiddleware, RequireRole(auth.RoleAdmin))
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/users/:id/reset", adminHandler.ResetUser)
	admin.POST("/users/:id/toggle-transferred", adminHandler.ToggleTransferred)
}

// RequireRole rejects authenticated callers whose token role does not match.
// It replaces per-route guard types with one parameterized check.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			if claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
