// Package authenticator defines the interface for impersonate-auth
// authenticators and the registry that chains them.
//
// # Authenticator Interface
//
// All authenticators implement the Authenticator interface:
//
//	type Authenticator interface {
//	    Name() string
//	    Authenticate(ctx context.Context, input AuthenticatorInput) (*identity.Identity, error)
//	    Status(ctx context.Context) error
//	}
//
// Authenticate returns nil, nil when the credentials simply don't match, so a
// registry can move on to the next authenticator.
//
// # Built-in Authenticators
//
//   - authn: username and bcrypt password - see [github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator/authn]
//   - authn-impersonate: superuser impersonation with a composite secret - see [github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator/authn_impersonate]
//
// # Chain
//
// Registry.Authenticate tries enabled authenticators in order. The first
// identity wins and comes back with Backend set to the authenticator's name.
// The order is configured with the authenticators attribute:
//
//	IMPERSONATE_AUTH_AUTHENTICATORS=authn-impersonate,authn
package authenticator
