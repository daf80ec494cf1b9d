package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/repository"
)

var ErrProfileFieldsRequired = errors.New("full name and phone are required")

// UserService handles directory listing and profile updates.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsersInput represents filters for the user directory.
type ListUsersInput struct {
	Search string
	Role   *models.Role
}

// List returns users matching the filters, ordered by role then name.
func (s *UserService) List(input ListUsersInput) ([]models.User, error) {
	users, err := s.userRepo.List(repository.UserFilter{
		Search: input.Search,
		Role:   input.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile changes the caller's own name and phone.
func (s *UserService) UpdateProfile(userID uint64, fullName, phone string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	if fullName == "" || phone == "" {
		return nil, ErrProfileFieldsRequired
	}

	if err := s.userRepo.UpdateProfile(userID, fullName, phone); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}
