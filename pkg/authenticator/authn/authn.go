package authn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/logging"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/password"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store"
)

// Name is the registry name of the password authenticator
const Name = "authn"

// dummyPassword is hashed once and verified against for unknown users so a
// miss costs about as much as a wrong password.
const dummyPassword = "impersonate-auth-dummy-password"

var (
	_ authenticator.Authenticator      = (*Authenticator)(nil)
	_ authenticator.CredentialVerifier = (*Authenticator)(nil)
)

// Authenticator implements username and password authentication
type Authenticator struct {
	users  store.UsersStore
	hasher password.Hasher

	dummyOnce sync.Once
	dummyHash string
}

// New creates a password authenticator. A nil hasher means bcrypt at the default cost.
func New(users store.UsersStore, hasher password.Hasher) *Authenticator {
	if hasher == nil {
		hasher = password.NewBcryptHasher()
	}
	return &Authenticator{
		users:  users,
		hasher: hasher,
	}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return Name
}

// Authenticate checks Login and Credentials as a plain username and password
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*identity.Identity, error) {
	if input.Credentials == nil {
		return nil, nil
	}
	return a.VerifyCredentials(ctx, input.Login, string(input.Credentials))
}

// VerifyCredentials returns the identity of an active user whose password
// matches, or nil. Only store failures other than a missing user are errors.
func (a *Authenticator) VerifyCredentials(ctx context.Context, username, pass string) (*identity.Identity, error) {
	if username == "" {
		return nil, nil
	}

	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			a.verifyDummy(pass)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := a.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		l := logging.Component(Name)
		l.Warn().Err(err).Str("user", username).Msg("stored password hash is unusable")
		return nil, nil
	}
	if !ok || !user.IsActive {
		return nil, nil
	}

	return identity.FromUser(user), nil
}

func (a *Authenticator) verifyDummy(pass string) {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(dummyPassword)
		if err == nil {
			a.dummyHash = hash
		}
	})
	if a.dummyHash == "" {
		return
	}
	_, _ = a.hasher.Verify(pass, a.dummyHash)
}

// Status checks if the authenticator can reach its user store
func (a *Authenticator) Status(ctx context.Context) error {
	if health, ok := a.users.(store.HealthStore); ok {
		return health.CheckConnectivity(ctx)
	}
	return nil
}
