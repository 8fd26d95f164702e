package authn

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/password"
	gormstore "github.com/doodlesbykumbi/impersonate-auth/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store/memory"
)

// countingHasher records how many times Verify was called
type countingHasher struct {
	password.Hasher
	verifies int
}

func (h *countingHasher) Verify(pass, hash string) (bool, error) {
	h.verifies++
	return h.Hasher.Verify(pass, hash)
}

func newHasher() *countingHasher {
	return &countingHasher{Hasher: &password.BcryptHasher{Cost: bcrypt.MinCost}}
}

func hash(t *testing.T, pass string) string {
	h, err := (&password.BcryptHasher{Cost: bcrypt.MinCost}).Hash(pass)
	require.NoError(t, err)
	return h
}

func setupTestStore(t *testing.T) *memory.UsersStore {
	return memory.NewUsersStore(
		model.User{Username: "alice", PasswordHash: hash(t, "Secret1"), IsActive: true},
		model.User{Username: "dormant", PasswordHash: hash(t, "Secret1"), IsActive: false},
		model.User{Username: "broken", PasswordHash: "not-a-hash", IsActive: true},
	)
}

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}

func TestAuthenticator_Name(t *testing.T) {
	auth := New(setupTestStore(t), nil)
	assert.Equal(t, "authn", auth.Name())
}

func TestAuthenticator_Authenticate_Success(t *testing.T) {
	auth := New(setupTestStore(t), newHasher())

	id, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{
		Login:       "alice",
		Credentials: []byte("Secret1"),
	})
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "alice", id.Username)
}

func TestAuthenticator_Authenticate_NoMatch(t *testing.T) {
	tests := []struct {
		name        string
		login       string
		credentials []byte
	}{
		{name: "wrong password", login: "alice", credentials: []byte("WRONG")},
		{name: "inactive user", login: "dormant", credentials: []byte("Secret1")},
		{name: "unknown user", login: "ghost", credentials: []byte("Secret1")},
		{name: "missing credentials", login: "alice", credentials: nil},
		{name: "empty login", login: "", credentials: []byte("Secret1")},
		{name: "unusable stored hash", login: "broken", credentials: []byte("Secret1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := New(setupTestStore(t), newHasher())

			id, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{
				Login:       tt.login,
				Credentials: tt.credentials,
			})
			assert.NoError(t, err)
			assert.Nil(t, id)
		})
	}
}

func TestAuthenticator_UnknownUserRunsHasher(t *testing.T) {
	hasher := newHasher()
	auth := New(setupTestStore(t), hasher)

	id, err := auth.VerifyCredentials(context.Background(), "ghost", "Secret1")
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, 1, hasher.verifies)
}

func TestAuthenticator_VerifyCredentials_DatabaseError(t *testing.T) {
	db, mock := setupTestDB(t)
	auth := New(gormstore.NewUsersStore(db), newHasher())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`)).
		WithArgs("alice").
		WillReturnError(assert.AnError)

	id, err := auth.VerifyCredentials(context.Background(), "alice", "Secret1")
	assert.Nil(t, id)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to look up user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticator_Status(t *testing.T) {
	db, mock := setupTestDB(t)
	auth := New(gormstore.NewUsersStore(db), nil)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := auth.Status(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
