// Package identity provides the account snapshot returned by authenticators.
//
// An Identity is built from a stored user and carries the flags the
// impersonation policy needs (active, superuser, staff). Authenticators never
// mutate identities; the chain only tags a copy with the name of the
// authenticator that accepted the credentials.
//
// # Basic Usage
//
//	id := identity.FromUser(user)
//
//	// Tag with the authenticator that accepted the login
//	id = id.WithBackend("authn-impersonate")
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
package identity
