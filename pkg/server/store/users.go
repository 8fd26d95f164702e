package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
)

// ErrUserNotFound is returned when no user has the requested username
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when creating a user whose username is taken
var ErrUserExists = errors.New("user already exists")

// UsersStore abstracts user storage operations
type UsersStore interface {
	// FindByUsername returns the user with the given username.
	// Returns ErrUserNotFound if the user doesn't exist.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// CreateUser persists a new user. An empty ID is filled in.
	// Returns ErrUserExists if the username is taken.
	CreateUser(ctx context.Context, user *model.User) error

	// SetActive flips the active flag of a user.
	// Returns ErrUserNotFound if the user doesn't exist.
	SetActive(ctx context.Context, username string, active bool) error
}
