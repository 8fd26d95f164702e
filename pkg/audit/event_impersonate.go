package audit

import (
	"context"
	"fmt"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/events"
)

// ImpersonationEvent records an impersonation attempt that reached the policy check
type ImpersonationEvent struct {
	Target       string
	Impersonator string
	ClientIP     string
	Success      bool
}

// FromEvent converts a bus event into an audit event
func FromEvent(e events.Event) ImpersonationEvent {
	ev := ImpersonationEvent{
		ClientIP: e.ClientIP,
		Success:  e.Kind == events.ImpersonationSucceeded,
	}
	if e.Target != nil {
		ev.Target = e.Target.Username
	}
	if e.Impersonator != nil {
		ev.Impersonator = e.Impersonator.Username
	}
	return ev
}

func (e ImpersonationEvent) MessageID() string {
	return "impersonate"
}

func (e ImpersonationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s impersonated %s", e.Impersonator, e.Target)
	}
	return fmt.Sprintf("failed attempt to impersonate %s", e.Target)
}

func (e ImpersonationEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e ImpersonationEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ImpersonationEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"authenticator": "authn-impersonate",
			"user":          e.Target,
		},
		SDIDAction: {
			"operation": "impersonate",
			"result":    result(e.Success),
		},
	}
	if e.Impersonator != "" {
		sd[SDIDSubject] = map[string]string{"impersonator": e.Impersonator}
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

// Observer returns a bus handler that audits every impersonation event
func Observer() events.Handler {
	return func(ctx context.Context, e events.Event) error {
		LogContext(ctx, FromEvent(e))
		return nil
	}
}
