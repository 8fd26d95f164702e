package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/audit"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/config"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/logging"
)

// Realm is sent in the WWW-Authenticate challenge
const Realm = "impersonate-auth"

// BasicAuthenticator is middleware that logs requests in with HTTP Basic
// credentials through an authenticator chain
type BasicAuthenticator struct {
	Registry *authenticator.Registry
}

// NewBasicAuthenticator creates a new Basic auth middleware
func NewBasicAuthenticator(registry *authenticator.Registry) *BasicAuthenticator {
	return &BasicAuthenticator{Registry: registry}
}

// Middleware returns an HTTP middleware that authenticates the request and
// stores the identity in the request context
func (b *BasicAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			challenge(w)
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		clientIP := ClientIP(r, config.Get())
		id, err := b.Registry.Authenticate(r.Context(), authenticator.AuthenticatorInput{
			Login:       username,
			Credentials: []byte(password),
			ClientIP:    clientIP,
			Request:     r,
		})
		if err != nil {
			if errors.Is(err, authenticator.ErrUnauthenticated) {
				audit.LogContext(r.Context(), audit.AuthenticateEvent{
					Username:     username,
					ClientIP:     clientIP,
					ErrorMessage: "invalid credentials",
				})
				challenge(w)
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}

			l := logging.Component("http")
			l.Error().Err(err).Str("user", username).Msg("authentication failed")
			audit.LogContext(r.Context(), audit.AuthenticateEvent{
				Username:     username,
				ClientIP:     clientIP,
				ErrorMessage: "internal error",
			})
			http.Error(w, "Authentication unavailable", http.StatusServiceUnavailable)
			return
		}

		audit.LogContext(r.Context(), audit.AuthenticateEvent{
			Username:          id.Username,
			ClientIP:          clientIP,
			AuthenticatorName: id.Backend,
			Success:           true,
		})

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
}

// ClientIP returns the request's client address. X-Forwarded-For is only
// honoured when the direct peer is a trusted proxy; the right-most untrusted
// address in the header wins.
func ClientIP(r *http.Request, cfg *config.Config) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" || cfg == nil || !cfg.IsTrustedProxy(remote) {
		return remote
	}

	hops := strings.Split(forwarded, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !cfg.IsTrustedProxy(hop) {
			return hop
		}
		remote = hop
	}
	return remote
}
