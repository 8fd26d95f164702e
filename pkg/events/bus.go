package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/logging"
)

// Handler observes events. A returned error is logged and otherwise ignored.
type Handler func(ctx context.Context, event Event) error

type subscription struct {
	kind    Kind
	all     bool
	handler Handler
}

// Bus delivers events synchronously to subscribers in registration order.
// Subscriptions are append-only.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewBus creates an empty Bus
func NewBus() *Bus {
	return &Bus{}
}

// DefaultBus is the process-wide bus
var DefaultBus = NewBus()

// Subscribe registers a handler for one kind of event
func (b *Bus) Subscribe(kind Kind, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.subs = append(b.subs, subscription{kind: kind, handler: h})
	b.mu.Unlock()
}

// SubscribeAll registers a handler for every kind of event
func (b *Bus) SubscribeAll(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.subs = append(b.subs, subscription{all: true, handler: h})
	b.mu.Unlock()
}

// Len returns the number of handlers that receive events of the given kind
func (b *Bus) Len(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, s := range b.subs {
		if s.all || s.kind == kind {
			n++
		}
	}
	return n
}

// Publish calls every matching handler in registration order and returns once
// all of them have run. Handler errors and panics are logged and never stop
// delivery to the remaining handlers. Each handler gets its own copy of the
// event.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for i, s := range subs {
		if !s.all && s.kind != event.Kind {
			continue
		}
		if err := deliver(ctx, s.handler, event.clone()); err != nil {
			l := logging.Component("events")
			l.Warn().
				Err(err).
				Int("observer", i).
				Str("kind", event.Kind.String()).
				Str("event_id", event.ID.String()).
				Msg("observer failed")
		}
	}
}

func deliver(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()
	return h(ctx, event)
}
