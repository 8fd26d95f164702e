package authn_impersonate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/config"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/events"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/logging"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store"
)

// Name is the registry name of the impersonation authenticator
const Name = "authn-impersonate"

var _ authenticator.Authenticator = (*Authenticator)(nil)

// Authenticator logs a superuser in as another user. The claimed login is the
// target; the secret is "<impersonator><separator><impersonator password>".
type Authenticator struct {
	users     store.UsersStore
	verifier  authenticator.CredentialVerifier
	separator func() string
	bus       *events.Bus
}

// Option configures an Authenticator
type Option func(*Authenticator)

// WithSeparatorFunc sets where the separator is read from. It is called once
// per authentication. The default reads config.Get().Separator.
func WithSeparatorFunc(fn func() string) Option {
	return func(a *Authenticator) {
		if fn != nil {
			a.separator = fn
		}
	}
}

// WithBus sets the bus outcomes are published on. The default is events.DefaultBus.
func WithBus(bus *events.Bus) Option {
	return func(a *Authenticator) {
		if bus != nil {
			a.bus = bus
		}
	}
}

// New creates an impersonation authenticator. Targets are looked up in users;
// impersonators are checked through verifier.
func New(users store.UsersStore, verifier authenticator.CredentialVerifier, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:     users,
		verifier:  verifier,
		separator: func() string { return config.Get().Separator },
		bus:       events.DefaultBus,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return Name
}

// Authenticate returns the target identity when a valid superuser secret is
// presented for it.
//
// A secret that doesn't split into exactly two parts, or a target that
// doesn't exist, is not a match and publishes nothing. Otherwise exactly one
// event is published: ImpersonationSucceeded when the impersonator's
// credentials are valid and CanImpersonate allows it, ImpersonationFailed in
// every other case.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*identity.Identity, error) {
	impersonatorName, impersonatorPassword, ok := SplitSecret(input.Credentials, a.separator())
	if !ok {
		return nil, nil
	}

	user, err := a.users.FindByUsername(ctx, input.Login)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up impersonation target: %w", err)
	}
	target := identity.FromUser(user)

	impersonator, err := a.verifier.VerifyCredentials(ctx, impersonatorName, impersonatorPassword)
	if err != nil {
		l := logging.Component(Name)
		l.Warn().Err(err).Str("target", target.Username).Msg("impersonator verification failed")
		impersonator = nil
	}

	if impersonator != nil && CanImpersonate(impersonator, target) {
		a.bus.Publish(ctx, events.Succeeded(target, impersonator, input.ClientIP))
		return target, nil
	}

	a.bus.Publish(ctx, events.Failed(target, input.ClientIP))
	return nil, nil
}

// Status checks if the authenticator can reach its user store
func (a *Authenticator) Status(ctx context.Context) error {
	if health, ok := a.users.(store.HealthStore); ok {
		return health.CheckConnectivity(ctx)
	}
	return nil
}

// SplitSecret splits a composite secret into impersonator username and
// password. It requires exactly one occurrence of a non-empty separator, so a
// password containing the separator cannot be used to impersonate. Either
// part may be empty.
func SplitSecret(secret []byte, separator string) (username, password string, ok bool) {
	if secret == nil || separator == "" {
		return "", "", false
	}
	s := string(secret)
	if strings.Count(s, separator) != 1 {
		return "", "", false
	}
	username, password, _ = strings.Cut(s, separator)
	return username, password, true
}

// CanImpersonate reports whether impersonator may log in as target: they are
// different accounts, both are active, the target is not a superuser and the
// impersonator is. Staff status grants nothing.
func CanImpersonate(impersonator, target *identity.Identity) bool {
	if impersonator == nil || target == nil {
		return false
	}
	return impersonator.Username != target.Username &&
		target.IsActive && impersonator.IsActive &&
		!target.IsSuperuser &&
		impersonator.IsSuperuser
}
