package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store"
)

var (
	_ store.UsersStore  = (*UsersStore)(nil)
	_ store.HealthStore = (*UsersStore)(nil)
)

// UsersStore keeps users in a map keyed by username.
// Returned users are copies; mutating them does not change the store.
type UsersStore struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewUsersStore creates an empty UsersStore, optionally seeded with users.
func NewUsersStore(users ...model.User) *UsersStore {
	s := &UsersStore{users: make(map[string]model.User, len(users))}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		s.users[u.Username] = u
	}
	return s
}

func (s *UsersStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s *UsersStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return store.ErrUserExists
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.Username] = *user
	return nil
}

func (s *UsersStore) SetActive(ctx context.Context, username string, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return store.ErrUserNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	s.users[username] = u
	return nil
}

// CheckConnectivity always succeeds for an in-memory store.
func (s *UsersStore) CheckConnectivity(ctx context.Context) error {
	return ctx.Err()
}
