// Package audit provides RFC5424 audit logging for impersonate-auth.
//
// Every login through the authenticator chain produces an AuthenticateEvent
// (msgid "authn") and every impersonation attempt that reaches the policy
// check produces an ImpersonationEvent (msgid "impersonate"). Messages go to
// DefaultLogger (stdout by default) and, when AUDIT_DATABASE_URL is set, to
// the messages table through Store.
//
// # Usage
//
//	events.DefaultBus.SubscribeAll(audit.Observer())
//
//	audit.Log(audit.AuthenticateEvent{
//	    Username:          "alice",
//	    AuthenticatorName: "authn",
//	    Success:           true,
//	})
//
// Logging follows the audit_enabled configuration attribute. SetEnabled pins
// it regardless of configuration.
package audit
