package endpoints

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/server"
)

// RegisterMetricsEndpoint exposes the Prometheus registry at /metrics
func RegisterMetricsEndpoint(s *server.Server) {
	s.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
