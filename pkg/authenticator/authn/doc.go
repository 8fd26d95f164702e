// Package authn implements the "authn" authenticator: a username and a
// bcrypt-hashed password looked up in a store.UsersStore.
//
// Inactive users never authenticate. It also implements
// authenticator.CredentialVerifier and is the impersonator check behind
// authn-impersonate.
package authn
