package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/events"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
)

func TestObserver(t *testing.T) {
	succeeded := PromImpersonations.WithLabelValues("impersonation_succeeded")
	failed := PromImpersonations.WithLabelValues("impersonation_failed")
	beforeOK, beforeFailed := testutil.ToFloat64(succeeded), testutil.ToFloat64(failed)

	bus := events.NewBus()
	bus.SubscribeAll(Observer())

	target := &identity.Identity{Username: "alice"}
	bus.Publish(context.Background(), events.Succeeded(target, &identity.Identity{Username: "root"}, ""))
	bus.Publish(context.Background(), events.Failed(target, ""))
	bus.Publish(context.Background(), events.Failed(target, ""))

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(succeeded))
	assert.Equal(t, beforeFailed+2, testutil.ToFloat64(failed))
}

func TestRecordAuthentication(t *testing.T) {
	ok := PromAuthentications.WithLabelValues("authn-impersonate", "success")
	none := PromAuthentications.WithLabelValues(NoAuthenticator, "failure")
	beforeOK, beforeNone := testutil.ToFloat64(ok), testutil.ToFloat64(none)

	RecordAuthentication("authn-impersonate", true, 10*time.Millisecond)
	RecordAuthentication("", false, time.Millisecond)

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(ok))
	assert.Equal(t, beforeNone+1, testutil.ToFloat64(none))
}
