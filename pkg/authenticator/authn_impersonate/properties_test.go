package authn_impersonate

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/events"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store/memory"
)

// countingStore counts target lookups
type countingStore struct {
	store.UsersStore
	lookups atomic.Int32
}

func (s *countingStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	s.lookups.Add(1)
	return s.UsersStore.FindByUsername(ctx, username)
}

// plainVerifier accepts "<username>-pw" for any stored user
func plainVerifier(users store.UsersStore) verifierFunc {
	return func(ctx context.Context, username, pass string) (*identity.Identity, error) {
		if pass != username+"-pw" {
			return nil, nil
		}
		u, err := users.FindByUsername(ctx, username)
		if err != nil {
			return nil, nil
		}
		if !u.IsActive {
			return nil, nil
		}
		return identity.FromUser(u), nil
	}
}

var separators = []string{":", "^", "|", "::", "#!"}

func usernameGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z][a-z0-9._@]{0,11}`)
}

func secretPartGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9 .@_-]{0,12}`)
}

func TestProperty_WrongSeparatorCountNeverMatches(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sep := rapid.SampledFrom(separators).Draw(rt, "separator")
		count := rapid.SampledFrom([]int{0, 2, 3, 5}).Draw(rt, "count")
		parts := rapid.SliceOfN(secretPartGen(), count+1, count+1).Draw(rt, "parts")
		secret := strings.Join(parts, sep)
		if strings.Count(secret, sep) == 1 {
			rt.Skip("parts happened to form exactly one separator")
		}

		users := &countingStore{UsersStore: memory.NewUsersStore(
			model.User{Username: "alice", IsActive: true},
			model.User{Username: "root", IsActive: true, IsSuperuser: true},
		)}
		bus, rec := newRecordingBus()
		auth := New(users, plainVerifier(users), WithBus(bus), WithSeparatorFunc(func() string { return sep }))

		id, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{
			Login:       "alice",
			Credentials: []byte(secret),
		})
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if id != nil {
			rt.Fatalf("secret %q with %d separators matched", secret, count)
		}
		if n := len(rec.all()); n != 0 {
			rt.Fatalf("expected no events, got %d", n)
		}
		if n := users.lookups.Load(); n != 0 {
			rt.Fatalf("expected no target lookup, got %d", n)
		}
	})
}

func TestProperty_UnknownTargetNeverMatches(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sep := rapid.SampledFrom(separators).Draw(rt, "separator")
		target := usernameGen().Draw(rt, "target")
		if target == "root" {
			rt.Skip("target is the seeded impersonator")
		}
		secret := "root" + sep + "root-pw"

		users := memory.NewUsersStore(model.User{Username: "root", IsActive: true, IsSuperuser: true})
		bus, rec := newRecordingBus()
		auth := New(users, plainVerifier(users), WithBus(bus), WithSeparatorFunc(func() string { return sep }))

		id, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{
			Login:       target,
			Credentials: []byte(secret),
		})
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if id != nil {
			rt.Fatalf("unknown target %q matched", target)
		}
		if n := len(rec.all()); n != 0 {
			rt.Fatalf("expected no events, got %d", n)
		}
	})
}

type account struct {
	username  string
	active    bool
	superuser bool
	staff     bool
}

func accountGen(label string) *rapid.Generator[account] {
	return rapid.Custom(func(rt *rapid.T) account {
		return account{
			username:  usernameGen().Draw(rt, label+"-username"),
			active:    rapid.Bool().Draw(rt, label+"-active"),
			superuser: rapid.Bool().Draw(rt, label+"-superuser"),
			staff:     rapid.Bool().Draw(rt, label+"-staff"),
		}
	})
}

func (a account) user() model.User {
	return model.User{Username: a.username, IsActive: a.active, IsSuperuser: a.superuser, IsStaff: a.staff}
}

// Valid credentials reach the policy and produce exactly one event whose kind
// agrees with the four rules.
func TestProperty_PolicyDecidesOutcome(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sep := rapid.SampledFrom(separators).Draw(rt, "separator")
		impersonator := accountGen("impersonator").Draw(rt, "impersonator")
		target := accountGen("target").Draw(rt, "target")
		self := rapid.Bool().Draw(rt, "self")
		if self {
			target = impersonator
		}
		if !self && target.username == impersonator.username {
			rt.Skip("distinct accounts drew the same username")
		}

		seed := []model.User{impersonator.user()}
		if !self {
			seed = append(seed, target.user())
		}
		users := memory.NewUsersStore(seed...)
		bus, rec := newRecordingBus()
		auth := New(users, plainVerifier(users), WithBus(bus), WithSeparatorFunc(func() string { return sep }))

		secret := impersonator.username + sep + impersonator.username + "-pw"
		if strings.Count(secret, sep) != 1 {
			rt.Skip("username contains the separator")
		}

		id, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{
			Login:       target.username,
			Credentials: []byte(secret),
		})
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		allowed := !self &&
			impersonator.active && target.active &&
			!target.superuser &&
			impersonator.superuser

		got := rec.all()
		if len(got) != 1 {
			rt.Fatalf("expected exactly one event, got %d", len(got))
		}
		if got[0].Target == nil || got[0].Target.Username != target.username {
			rt.Fatalf("event target = %+v, want %q", got[0].Target, target.username)
		}

		if allowed {
			if id == nil || id.Username != target.username {
				rt.Fatalf("expected %q to be returned, got %+v", target.username, id)
			}
			if got[0].Kind != events.ImpersonationSucceeded {
				rt.Fatalf("expected success event, got %s", got[0].Kind)
			}
			if got[0].Impersonator == nil || got[0].Impersonator.Username != impersonator.username {
				rt.Fatalf("event impersonator = %+v, want %q", got[0].Impersonator, impersonator.username)
			}
			return
		}

		if id != nil {
			rt.Fatalf("expected no identity, got %+v", id)
		}
		if got[0].Kind != events.ImpersonationFailed {
			rt.Fatalf("expected failure event, got %s", got[0].Kind)
		}
		if got[0].Impersonator != nil {
			rt.Fatalf("failure event carries impersonator %+v", got[0].Impersonator)
		}
	})
}

// A wrong impersonator password is always a failed attempt, whatever the flags.
func TestProperty_WrongPasswordAlwaysFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		impersonator := accountGen("impersonator").Draw(rt, "impersonator")
		target := accountGen("target").Draw(rt, "target")
		if target.username == impersonator.username {
			rt.Skip("same username")
		}
		wrong := secretPartGen().Draw(rt, "password")
		if wrong == impersonator.username+"-pw" || strings.Contains(wrong, ":") {
			rt.Skip("drew the valid password")
		}

		users := memory.NewUsersStore(impersonator.user(), target.user())
		bus, rec := newRecordingBus()
		auth := New(users, plainVerifier(users), WithBus(bus), WithSeparatorFunc(func() string { return ":" }))

		id, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{
			Login:       target.username,
			Credentials: []byte(impersonator.username + ":" + wrong),
		})
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if id != nil {
			rt.Fatalf("wrong password matched")
		}
		got := rec.all()
		if len(got) != 1 || got[0].Kind != events.ImpersonationFailed {
			rt.Fatalf("expected one failure event, got %+v", got)
		}
	})
}
