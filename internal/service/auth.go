// Package service provides the business logic for accounts and notes,
// delegating persistence to repositories.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"notekeeper/internal/models"
)

var (
	// ErrInvalidCredentials is returned when the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation wraps field-validation failures of a registration payload.
	ErrValidation = errors.New("validation failed")
)

// UserRepository defines the persistence operations required by the
// authentication and profile services.
type UserRepository interface {
	// CreateUser inserts a new user record and returns it with its id.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// GetByUsername fetches a user by login name.
	GetByUsername(ctx context.Context, username string) (models.User, error)
	// UpdateProfile sets the mutable profile fields and returns the stored record.
	UpdateProfile(ctx context.Context, username, email, otherInfo string) (models.User, error)
}

// TokenIssuer mints access tokens for authenticated subjects.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	OtherInfo string `json:"other_info"`
}

// AuthService implements registration and login.
type AuthService struct {
	repo     UserRepository
	tokens   TokenIssuer
	validate *validator.Validate
}

// NewAuthService constructs an AuthService using the provided repository
// and token issuer.
func NewAuthService(repo UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Register validates the input, stores the new user with a bcrypt-hashed
// password and issues an access token (auto-login).
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, string, error) {
	if err := s.validate.Struct(input); err != nil {
		return models.User{}, "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		OtherInfo:    input.OtherInfo,
	})
	if err != nil {
		return models.User{}, "", err
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login checks the credentials and issues an access token. Unknown users and
// wrong passwords both map to ErrInvalidCredentials so callers cannot probe
// for registered usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}
