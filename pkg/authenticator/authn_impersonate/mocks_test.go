package authn_impersonate

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/events"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
)

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsersStore) SetActive(ctx context.Context, username string, active bool) error {
	args := m.Called(ctx, username, active)
	return args.Error(0)
}

// MockVerifier implements authenticator.CredentialVerifier for testing using testify/mock
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyCredentials(ctx context.Context, username, password string) (*identity.Identity, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

// verifierFunc adapts a function to authenticator.CredentialVerifier
type verifierFunc func(ctx context.Context, username, password string) (*identity.Identity, error)

func (f verifierFunc) VerifyCredentials(ctx context.Context, username, password string) (*identity.Identity, error) {
	return f(ctx, username, password)
}

// recorder collects every event published on a bus
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func newRecordingBus() (*events.Bus, *recorder) {
	bus := events.NewBus()
	rec := &recorder{}
	bus.SubscribeAll(func(ctx context.Context, e events.Event) error {
		rec.mu.Lock()
		rec.events = append(rec.events, e)
		rec.mu.Unlock()
		return nil
	})
	return bus, rec
}

func (r *recorder) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}
