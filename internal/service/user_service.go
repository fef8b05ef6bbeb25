package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "labreserve/internal/errors"
	"labreserve/internal/model"
	"labreserve/internal/repository"
)

// UserPatch is a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	FullName *string
	Email    *string
	Password *string
	IsActive *bool
}

// UserService exposes profile operations.
type UserService interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, patch UserPatch) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields; a password change is re-hashed.
func (s *userService) UpdateProfile(ctx context.Context, id uint, patch UserPatch) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Email != nil {
		if *patch.Email == "" {
			user.Email = nil
		} else {
			user.Email = patch.Email
		}
	}
	if patch.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
