package benchmark

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/audit"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator/authn_impersonate"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/config"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/events"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/password"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/endpoints"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store/memory"
)

func newHandler(b *testing.B) http.Handler {
	b.Helper()

	config.Set(config.New())
	audit.SetEnabled(false)
	b.Cleanup(func() {
		config.Set(nil)
		audit.ResetEnabled()
	})

	hasher := &password.BcryptHasher{Cost: bcrypt.MinCost}
	rootHash, _ := hasher.Hash("Secret1")
	aliceHash, _ := hasher.Hash("alice-pw")
	users := memory.NewUsersStore(
		model.User{Username: "root", PasswordHash: rootHash, IsActive: true, IsSuperuser: true},
		model.User{Username: "alice", PasswordHash: aliceHash, IsActive: true},
	)

	passwordAuth := authn.New(users, hasher)
	registry := authenticator.NewRegistry()
	registry.Register(passwordAuth)
	registry.Register(authn_impersonate.New(users, passwordAuth, authn_impersonate.WithBus(events.NewBus())))
	if err := registry.SetOrder(config.DefaultAuthenticators...); err != nil {
		b.Fatal(err)
	}

	s := server.NewServer(registry, users, users, "127.0.0.1", "0")
	endpoints.RegisterAll(s)
	return s.Router
}

func BenchmarkLogin(b *testing.B) {
	handler := newHandler(b)

	cases := []struct {
		name   string
		login  string
		secret string
		want   int
	}{
		{"impersonation", "alice", "root:Secret1", http.StatusOK},
		{"password", "alice", "alice-pw", http.StatusOK},
		{"rejected", "alice", "root:WRONG", http.StatusUnauthorized},
		{"unknown target", "nobody", "root:Secret1", http.StatusUnauthorized},
	}

	for _, c := range cases {
		b.Run("POST /login "+c.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				r := httptest.NewRequest("POST", "/login", nil)
				r.SetBasicAuth(c.login, c.secret)
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, r)
				if w.Code != c.want {
					b.Fatalf("expected %d, got %d", c.want, w.Code)
				}
			}
		})
	}
}
