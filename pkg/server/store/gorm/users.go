package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore and store.HealthStore
var (
	_ store.UsersStore  = (*UsersStore)(nil)
	_ store.HealthStore = (*UsersStore)(nil)
)

// PostgreSQL unique_violation
const uniqueViolation = "23505"

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// FindByUsername retrieves a user by username.
func (s *UsersStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	tx := s.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// CreateUser inserts a new user row.
func (s *UsersStore) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := s.db.WithContext(ctx).Create(user).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrUserExists
	}
	return err
}

// SetActive updates the is_active flag of a user.
func (s *UsersStore) SetActive(ctx context.Context, username string, active bool) error {
	tx := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Update("is_active", active)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// CheckConnectivity verifies database connectivity
func (s *UsersStore) CheckConnectivity(ctx context.Context) error {
	return NewHealthStore(s.db).CheckConnectivity(ctx)
}
