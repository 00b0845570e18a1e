package service

import (
	"context"

	"notekeeper/internal/models"
)

// UserService implements profile operations by delegating to a UserRepository.
type UserService struct {
	repo UserRepository
}

// NewUserService constructs a UserService using the provided repository.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Profile returns the public view of the user with the given username.
func (s *UserService) Profile(ctx context.Context, username string) (models.Profile, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile(), nil
}

// UpdateProfile sets the mutable profile fields and returns the stored record.
func (s *UserService) UpdateProfile(ctx context.Context, username string, input models.ProfileInput) (models.Profile, error) {
	user, err := s.repo.UpdateProfile(ctx, username, input.Email, input.OtherInfo)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile(), nil
}
