package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
)

// Event is the record delivered to observers after an impersonation attempt
// reaches the policy check. Failed events carry no impersonator. Identities
// are copies, never the ones handed back to the caller.
type Event struct {
	ID           uuid.UUID          `json:"id"`
	Kind         Kind               `json:"kind"`
	Target       *identity.Identity `json:"target"`
	Impersonator *identity.Identity `json:"impersonator,omitempty"`
	ClientIP     string             `json:"client_ip,omitempty"`
	OccurredAt   time.Time          `json:"occurred_at"`
}

// Succeeded builds an ImpersonationSucceeded event.
func Succeeded(target, impersonator *identity.Identity, clientIP string) Event {
	return Event{
		ID:           uuid.New(),
		Kind:         ImpersonationSucceeded,
		Target:       snapshot(target),
		Impersonator: snapshot(impersonator),
		ClientIP:     clientIP,
		OccurredAt:   time.Now().UTC(),
	}
}

// Failed builds an ImpersonationFailed event.
func Failed(target *identity.Identity, clientIP string) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       ImpersonationFailed,
		Target:     snapshot(target),
		ClientIP:   clientIP,
		OccurredAt: time.Now().UTC(),
	}
}

// clone returns a copy of the event with its own identity values.
func (e Event) clone() Event {
	e.Target = snapshot(e.Target)
	e.Impersonator = snapshot(e.Impersonator)
	return e
}

func snapshot(id *identity.Identity) *identity.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
