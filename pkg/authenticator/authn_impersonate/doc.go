// Package authn_impersonate implements the "authn-impersonate" authenticator,
// which lets a superuser log in as another user.
//
// The caller submits the target's username as the login and a composite
// secret as the password:
//
//	<impersonator username><separator><impersonator password>
//
// The separator comes from the impersonate_auth_separator configuration
// attribute (default ":") and is read on every call, so a configuration
// reload changes it without a restart. The secret must contain the separator
// exactly once.
//
// The impersonator is checked through an authenticator.CredentialVerifier,
// normally the authn authenticator, so impersonators need a valid password
// and an active account like any other login. Impersonation is then allowed
// when CanImpersonate holds:
//
//   - the impersonator and target are different accounts
//   - both are active
//   - the target is not a superuser
//   - the impersonator is a superuser
//
// # Events
//
// Every attempt that gets as far as finding the target publishes one event
// on the bus: events.ImpersonationSucceeded with the target and the
// impersonator, or events.ImpersonationFailed with the target only. Malformed
// secrets and unknown targets publish nothing.
//
// # Usage
//
//	password := authn.New(users, nil)
//	impersonate := authn_impersonate.New(users, password)
//
//	registry.Register(impersonate)
//	registry.Register(password)
//	registry.SetOrder(authn_impersonate.Name, authn.Name)
package authn_impersonate
