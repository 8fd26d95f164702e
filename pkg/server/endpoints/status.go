package endpoints

import (
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/config"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/logging"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store"
)

// DefaultVersion is reported when IMPERSONATE_AUTH_VERSION is unset
const DefaultVersion = "0.1.0"

// AuthenticatorsResponse represents the response from /authenticators
type AuthenticatorsResponse struct {
	Installed  []string `json:"installed"`
	Configured []string `json:"configured"`
	Enabled    []string `json:"enabled"`
}

// AuthenticatorStatusResponse represents the response from authenticator status endpoint
type AuthenticatorStatusResponse struct {
	Status string `json:"status"`
}

// AuthenticatorStatusErrorResponse represents an error response from authenticator status
type AuthenticatorStatusErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// RegisterStatusEndpoints registers the status and info endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.Registry)).Methods("GET")

	// GET /authenticators - List authenticators (no auth required)
	s.Router.HandleFunc("/authenticators", handleAuthenticators(s.Registry)).Methods("GET")

	// GET /{authenticator}/status - Authenticator status (no auth required)
	s.Router.HandleFunc("/{authenticator}/status", handleAuthenticatorStatus(s.HealthStore, s.Registry)).Methods("GET")
}

var statusPage = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>impersonate-auth status</title>
  </head>
  <body>
    <h1>Status</h1>
    <p class="status-text">Your impersonate-auth server is running!</p>
    <dl>
      <dt>Version</dt>
      <dd>{{.Version}}</dd>
      <dt>Authenticators</dt>
      <dd>{{range $i, $name := .Enabled}}{{if $i}}, {{end}}{{$name}}{{end}}</dd>
    </dl>
  </body>
</html>
`))

func version() string {
	if v := os.Getenv("IMPERSONATE_AUTH_VERSION"); v != "" {
		return v
	}
	return DefaultVersion
}

func handleStatus(registry *authenticator.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := version()

		// JSON is requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"version": v})
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := statusPage.Execute(w, struct {
			Version string
			Enabled []string
		}{v, registry.Enabled()})
		if err != nil {
			l := logging.Component("http")
			l.Error().Err(err).Msg("failed to render status page")
		}
	}
}

func handleAuthenticators(registry *authenticator.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configured := append([]string{}, config.Get().Authenticators...)

		// Installed is sorted; configured and enabled keep chain order
		respondWithJSON(w, http.StatusOK, AuthenticatorsResponse{
			Installed:  registry.Installed(),
			Configured: configured,
			Enabled:    registry.Enabled(),
		})
	}
}

func handleAuthenticatorStatus(healthStore store.HealthStore, registry *authenticator.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["authenticator"]

		// Check 1: Database connectivity
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, AuthenticatorStatusErrorResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}

		// Check 2: Authenticator is installed and enabled
		auth, ok := registry.Get(name)
		if !ok {
			respondWithJSON(w, http.StatusNotFound, AuthenticatorStatusErrorResponse{
				Status: "error",
				Error:  "authenticator is not installed",
			})
			return
		}
		if !registry.IsEnabled(name) {
			respondWithJSON(w, http.StatusNotImplemented, AuthenticatorStatusErrorResponse{
				Status: "error",
				Error:  "authenticator is not enabled",
			})
			return
		}

		// Check 3: The authenticator's own dependencies
		if err := auth.Status(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, AuthenticatorStatusErrorResponse{
				Status: "error",
				Error:  err.Error(),
			})
			return
		}

		respondWithJSON(w, http.StatusOK, AuthenticatorStatusResponse{Status: "ok"})
	}
}
