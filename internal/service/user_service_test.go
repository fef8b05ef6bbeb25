package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "labreserve/internal/errors"
	"labreserve/internal/model"
)

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("partial update leaves omitted fields untouched", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo)

		email := "alice@example.com"
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.User{
			ID:       3,
			Username: "alice",
			FullName: "Alice Demo",
			Email:    &email,
			IsActive: true,
		}, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		newName := "Alice D."
		user, err := svc.UpdateProfile(context.Background(), 3, UserPatch{FullName: &newName})

		assert.NoError(t, err)
		assert.Equal(t, "Alice D.", user.FullName)
		if assert.NotNil(t, user.Email) {
			assert.Equal(t, "alice@example.com", *user.Email)
		}
		assert.Equal(t, "alice", user.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty email clears the stored address", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo)

		email := "alice@example.com"
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.User{
			ID:       3,
			Username: "alice",
			Email:    &email,
			IsActive: true,
		}, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		blank := ""
		user, err := svc.UpdateProfile(context.Background(), 3, UserPatch{Email: &blank})

		assert.NoError(t, err)
		assert.Nil(t, user.Email)
	})

	t.Run("password change is re-hashed", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo)

		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3, Username: "alice"}, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		newPassword := "newsecret"
		user, err := svc.UpdateProfile(context.Background(), 3, UserPatch{Password: &newPassword})

		assert.NoError(t, err)
		assert.NotEqual(t, newPassword, user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)))
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo)

		mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		user, err := svc.UpdateProfile(context.Background(), 99, UserPatch{})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
