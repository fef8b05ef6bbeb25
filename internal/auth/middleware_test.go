package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"labreserve/internal/model"
)

type stubUserRepo struct {
	user *model.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

func (s *stubUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

// invokeWithToken runs the middleware the way echo-jwt hands tokens over:
// parsed into *jwt.Token with our Claims type under the "user" context key.
func invokeWithToken(t *testing.T, repo *stubUserRepo, token string) (echo.Context, error) {
	t.Helper()

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user", parsed)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return c, CurrentUserMiddleware(repo)(next)(c)
}

func TestCurrentUserMiddleware(t *testing.T) {
	svc := NewJWTService("test-secret")

	t.Run("access token resolves the current user", func(t *testing.T) {
		repo := &stubUserRepo{user: &model.User{ID: 7, Username: "alice", IsActive: true}}
		token, err := svc.GenerateAccessToken(7, "alice")
		assert.NoError(t, err)

		c, err := invokeWithToken(t, repo, token)

		assert.NoError(t, err)
		if user := CurrentUser(c); assert.NotNil(t, user) {
			assert.Equal(t, "alice", user.Username)
		}
	})

	t.Run("refresh token is rejected as a bearer credential", func(t *testing.T) {
		repo := &stubUserRepo{user: &model.User{ID: 7, Username: "alice", IsActive: true}}
		_, token, err := svc.GenerateRefreshToken(7, "alice")
		assert.NoError(t, err)

		c, err := invokeWithToken(t, repo, token)

		var httpErr *echo.HTTPError
		if assert.ErrorAs(t, err, &httpErr) {
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		}
		assert.Nil(t, CurrentUser(c))
	})

	t.Run("inactive user is rejected", func(t *testing.T) {
		repo := &stubUserRepo{user: &model.User{ID: 7, Username: "alice", IsActive: false}}
		token, err := svc.GenerateAccessToken(7, "alice")
		assert.NoError(t, err)

		_, err = invokeWithToken(t, repo, token)

		var httpErr *echo.HTTPError
		if assert.ErrorAs(t, err, &httpErr) {
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		}
	})
}
