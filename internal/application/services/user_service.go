package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

// UserService handles user management operations
type UserService struct {
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateUser provisions an account with an explicit role. Leaders only.
func (s *UserService) CreateUser(ctx context.Context, actor ports.Actor, req ports.CreateUserRequest) (*entities.User, error) {
	if !actor.IsLeader() {
		return nil, entities.ErrForbidden
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         req.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID, "role", user.Role, "created_by", actor.ID)

	user.PasswordHash = ""
	return user, nil
}

// ListUsers returns the worker roster. Leaders only.
func (s *UserService) ListUsers(ctx context.Context, actor ports.Actor) ([]*entities.User, error) {
	if !actor.IsLeader() {
		return nil, entities.ErrForbidden
	}

	users, err := s.userRepo.ListByRole(ctx, entities.UserRoleWorker)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.PasswordHash = ""
	}

	return users, nil
}

// UpdateProfile updates the caller's own name, email and optionally password.
// A password change requires the current password.
func (s *UserService) UpdateProfile(ctx context.Context, actor ports.Actor, req ports.UpdateProfileRequest) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email

	if req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, entities.ErrWrongPassword
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", "user_id", user.ID)

	user.PasswordHash = ""
	return user, nil
}
