// Package repository provides persistence implementations for the user and
// note services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"notekeeper/internal/models"
)

var (
	// ErrUserNotFound is returned when no user matches the query.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// PostgresUserRepository implements user persistence against PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts a new user and returns it with the assigned id.
// Duplicate usernames and emails map to ErrUsernameTaken and ErrEmailTaken.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (username, email, password_hash, other_info)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		user.Username, user.Email, user.PasswordHash, user.OtherInfo,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == "users_email_key" {
				return models.User{}, ErrEmailTaken
			}
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("CreateUser: %w", err)
	}
	return user, nil
}

// GetByUsername fetches the user with the given username.
// Returns ErrUserNotFound if no such user exists.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, email, password_hash, other_info FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.OtherInfo)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("GetByUsername: %w", err)
	}
	return user, nil
}

// UpdateProfile sets the mutable profile fields for the given username and
// returns the stored record. Returns ErrUserNotFound if no row matched.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, username, email, otherInfo string) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`UPDATE users SET email = $2, other_info = $3
		 WHERE username = $1
		 RETURNING id, username, email, password_hash, other_info`,
		username, email, otherInfo,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.OtherInfo)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("UpdateProfile: %w", err)
	}
	return user, nil
}
