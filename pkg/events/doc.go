// Package events carries impersonation outcomes to in-process observers.
//
// The authn-impersonate authenticator publishes exactly one event for every
// attempt that reaches the policy check:
//
//   - ImpersonationSucceeded, with both target and impersonator
//   - ImpersonationFailed, with the target only
//
// Attempts with a malformed secret or an unknown target publish nothing.
//
// # Observers
//
// Observers register on a Bus with Subscribe or SubscribeAll. Delivery is
// synchronous and follows registration order. An observer that returns an
// error or panics is logged and skipped; the authentication result is never
// affected.
//
//	events.DefaultBus.SubscribeAll(audit.Observer())
//	events.DefaultBus.SubscribeAll(metrics.Observer())
package events
