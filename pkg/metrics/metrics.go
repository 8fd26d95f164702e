package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/events"
)

var (
	PromImpersonations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impersonate_auth_impersonations_total",
			Help: "Impersonation attempts that reached the policy check, by outcome",
		},
		[]string{"outcome"},
	)

	PromAuthentications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impersonate_auth_authentications_total",
			Help: "Logins through the authenticator chain, by authenticator and result",
		},
		[]string{"authenticator", "result"},
	)

	PromAuthenticationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "impersonate_auth_authentication_duration_seconds",
			Help: "Duration of a login through the authenticator chain in seconds",
			// bcrypt dominates; DefaultCost is tens of milliseconds
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
			},
		},
		[]string{"result"},
	)
)

// NoAuthenticator labels chain results where no authenticator matched
const NoAuthenticator = "none"

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordAuthentication counts one login. An empty authenticator name is
// recorded as NoAuthenticator.
func RecordAuthentication(authenticator string, ok bool, duration time.Duration) {
	if authenticator == "" {
		authenticator = NoAuthenticator
	}
	PromAuthentications.WithLabelValues(authenticator, resultLabel(ok)).Inc()
	PromAuthenticationDuration.WithLabelValues(resultLabel(ok)).Observe(duration.Seconds())
}

// Observer returns a bus handler that counts impersonation outcomes
func Observer() events.Handler {
	return func(ctx context.Context, e events.Event) error {
		PromImpersonations.WithLabelValues(e.Kind.String()).Inc()
		return nil
	}
}
