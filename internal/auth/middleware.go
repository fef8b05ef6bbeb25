package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"labreserve/internal/model"
	"labreserve/internal/repository"
)

// currentUserKey is the context key under which the resolved user is stored.
const currentUserKey = "currentUser"

// CurrentUserMiddleware resolves the JWT claims left by the echo-jwt middleware
// to a database user and stores it in the request context. Requests whose token
// refers to a missing or deactivated user are rejected.
func CurrentUserMiddleware(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.Username == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			// refresh tokens are exchanged at /auth/refresh, never presented as bearer credentials
			if claims.TokenType != TokenTypeAccess {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token type")
			}

			user, err := userRepo.FindByUsername(c.Request().Context(), claims.Username)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "user is inactive")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by CurrentUserMiddleware, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}
