package authenticator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/metrics"
)

var (
	// ErrUnauthenticated is returned by Registry.Authenticate when no enabled
	// authenticator accepted the credentials
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned when naming an authenticator that isn't registered
	ErrNotFound = errors.New("authenticator not found")
)

// Authenticator defines the interface for all authenticators
type Authenticator interface {
	// Name returns the authenticator name (e.g., "authn", "authn-impersonate")
	Name() string

	// Authenticate returns the identity the credentials log in as.
	// A nil identity with a nil error means the credentials don't match;
	// an error means the authenticator could not decide.
	Authenticate(ctx context.Context, input AuthenticatorInput) (*identity.Identity, error)

	// Status checks if the authenticator is healthy
	Status(ctx context.Context) error
}

// AuthenticatorInput contains the input for authentication
type AuthenticatorInput struct {
	Login string
	// Credentials is the secret presented with Login. nil means no secret was
	// presented, which is distinct from an empty one.
	Credentials []byte
	ClientIP    string
	Request     interface{} // Original HTTP request for authenticators that need it
}

// CredentialVerifier checks a plain username and password. It is the leg the
// impersonation authenticator uses to authenticate the impersonator.
type CredentialVerifier interface {
	// VerifyCredentials returns the matching identity, or nil if the
	// credentials don't match
	VerifyCredentials(ctx context.Context, username, password string) (*identity.Identity, error)
}

// Registry holds all registered authenticators and the order enabled ones are tried in
type Registry struct {
	mu             sync.RWMutex
	authenticators map[string]Authenticator
	order          []string
}

// NewRegistry creates a new authenticator registry
func NewRegistry() *Registry {
	return &Registry{
		authenticators: make(map[string]Authenticator),
	}
}

// Register adds an authenticator to the registry, replacing one with the same name
func (r *Registry) Register(auth Authenticator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authenticators[auth.Name()] = auth
}

// Enable appends an authenticator to the end of the chain. Enabling an
// already enabled authenticator keeps its position.
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authenticators[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if !slices.Contains(r.order, name) {
		r.order = append(r.order, name)
	}
	return nil
}

// Disable removes an authenticator from the chain
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = slices.DeleteFunc(slices.Clone(r.order), func(n string) bool { return n == name })
}

// SetOrder replaces the chain with the named authenticators in the given
// order. Every name must be registered; on error the chain is unchanged.
func (r *Registry) SetOrder(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := r.authenticators[name]; !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		if !slices.Contains(order, name) {
			order = append(order, name)
		}
	}
	r.order = order
	return nil
}

// Get returns an authenticator by name
func (r *Registry) Get(name string) (Authenticator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	auth, ok := r.authenticators[name]
	return auth, ok
}

// IsEnabled checks if an authenticator is enabled
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.order, name)
}

// Installed returns all installed authenticator names, sorted
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.authenticators))
	for name := range r.authenticators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enabled returns the enabled authenticator names in chain order
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

func (r *Registry) chain() []Authenticator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain := make([]Authenticator, 0, len(r.order))
	for _, name := range r.order {
		chain = append(chain, r.authenticators[name])
	}
	return chain
}

// Authenticate tries the enabled authenticators in order and returns the
// first identity produced, tagged with the authenticator's name. It returns
// ErrUnauthenticated when none matches. An authenticator error stops the
// chain.
func (r *Registry) Authenticate(ctx context.Context, input AuthenticatorInput) (*identity.Identity, error) {
	start := time.Now()

	for _, auth := range r.chain() {
		id, err := auth.Authenticate(ctx, input)
		if err != nil {
			metrics.RecordAuthentication(auth.Name(), false, time.Since(start))
			return nil, fmt.Errorf("authenticator %s: %w", auth.Name(), err)
		}
		if id != nil {
			metrics.RecordAuthentication(auth.Name(), true, time.Since(start))
			return id.WithBackend(auth.Name()), nil
		}
	}

	metrics.RecordAuthentication("", false, time.Since(start))
	return nil, ErrUnauthenticated
}

// DefaultRegistry is the global authenticator registry
var DefaultRegistry = NewRegistry()
