// Package middleware provides HTTP middleware for the impersonate-auth server.
//
// BasicAuthenticator runs HTTP Basic credentials through an
// authenticator.Registry. On success the identity is available to handlers
// through identity.Get; on failure the request is answered with 401 and a
// Basic challenge. Every attempt is audited.
package middleware
