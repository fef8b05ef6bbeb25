package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"labreserve/internal/auth"
	"labreserve/internal/config"
	"labreserve/internal/handler"
	"labreserve/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	reservationHandler *handler.ReservationHandler,
	auditHandler *handler.AuditHandler,
	assistantHandler *handler.AssistantHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/token", authHandler.Token)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication and a resolvable user)
	secured := e.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
		}),
		auth.CurrentUserMiddleware(userRepo),
	)

	// Profile routes
	secured.GET("/users/me", userHandler.Me)
	secured.PUT("/users/me", userHandler.UpdateMe)

	// Reservation routes
	reservations := secured.Group("/reservations")
	reservations.POST("/", reservationHandler.Create)
	reservations.GET("/", reservationHandler.List)
	reservations.GET("/analysis/popular-times", reservationHandler.PopularTimes)
	reservations.GET("/:id", reservationHandler.GetByID)
	reservations.PUT("/:id", reservationHandler.Update)
	reservations.DELETE("/:id", reservationHandler.Delete)

	// Audit routes (admin gate enforced in the handler)
	secured.GET("/audit/", auditHandler.List)

	// Assistant routes
	secured.POST("/ai/chat", assistantHandler.Chat)
	secured.GET("/ai/suggest", assistantHandler.Suggest)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
