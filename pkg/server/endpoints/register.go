package endpoints

import (
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterLoginEndpoint(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterMetricsEndpoint(srv)
}
