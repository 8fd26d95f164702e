package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity is a read-only snapshot of an account as seen by an authenticator.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	IsStaff     bool      `json:"is_staff"`

	// Backend names the authenticator that produced this identity. It is empty
	// until the identity comes back out of an authenticator chain.
	Backend string `json:"backend,omitempty"`
}

// FromUser creates an Identity from a stored user.
func FromUser(u *model.User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{
		ID:          u.ID,
		Username:    u.Username,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		IsStaff:     u.IsStaff,
	}
}

// WithBackend returns a copy of the identity tagged with the authenticator name.
func (i *Identity) WithBackend(name string) *Identity {
	tagged := *i
	tagged.Backend = name
	return &tagged
}

// SameAccount reports whether both identities refer to the same username.
func (i *Identity) SameAccount(other *Identity) bool {
	if i == nil || other == nil {
		return false
	}
	return i.Username == other.Username
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
