package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"notekeeper/internal/models"
	"notekeeper/internal/repository"
)

// fakeUserRepository implements UserRepository for testing.
type fakeUserRepository struct {
	created    *models.User
	createErr  error
	users      map[string]models.User
	getErr     error
	updateErr  error
	lastUpdate models.ProfileInput
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if f.createErr != nil {
		return models.User{}, f.createErr
	}
	user.ID = 1
	f.created = &user
	return user, nil
}

func (f *fakeUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if f.getErr != nil {
		return models.User{}, f.getErr
	}
	user, ok := f.users[username]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) UpdateProfile(ctx context.Context, username, email, otherInfo string) (models.User, error) {
	if f.updateErr != nil {
		return models.User{}, f.updateErr
	}
	f.lastUpdate = models.ProfileInput{Email: email, OtherInfo: otherInfo}
	user := f.users[username]
	user.Email = email
	user.OtherInfo = otherInfo
	return user, nil
}

// fakeIssuer returns a fixed token.
type fakeIssuer struct {
	token string
	err   error
}

func (f *fakeIssuer) Issue(subject string) (string, error) {
	return f.token, f.err
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := &fakeUserRepository{}
	svc := NewAuthService(repo, &fakeIssuer{token: "tok-1"})

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Username:  "alice",
		Email:     "alice@x.com",
		Password:  "secret1",
		OtherInfo: "hi",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("expected token tok-1, got %q", token)
	}
	if user.Username != "alice" || user.Email != "alice@x.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if repo.created == nil {
		t.Fatal("expected user to be stored")
	}
	if err := bcrypt.CompareHashAndPassword(repo.created.PasswordHash, []byte("secret1")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@x.com", Password: "secret1"}},
		{"bad email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}},
		{"short password", RegisterInput{Username: "alice", Email: "a@x.com", Password: "abc"}},
	}

	svc := NewAuthService(&fakeUserRepository{}, &fakeIssuer{token: "tok-1"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.input)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &fakeUserRepository{createErr: repository.ErrUsernameTaken}
	svc := NewAuthService(repo, &fakeIssuer{token: "tok-1"})

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "secret1",
	})
	if !errors.Is(err, repository.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &fakeUserRepository{users: map[string]models.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@x.com", PasswordHash: hash},
	}}
	svc := NewAuthService(repo, &fakeIssuer{token: "tok-1"})

	user, token, err := svc.Login(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("expected token tok-1, got %q", token)
	}
	if user.Email != "alice@x.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &fakeUserRepository{users: map[string]models.User{
		"alice": {Username: "alice", PasswordHash: hash},
	}}
	svc := NewAuthService(repo, &fakeIssuer{token: "tok-1"})

	_, _, err = svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(&fakeUserRepository{users: map[string]models.User{}}, &fakeIssuer{token: "tok-1"})

	_, _, err := svc.Login(context.Background(), "nobody", "secret1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
