package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/config"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/middleware"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	Username        string `json:"username"`
	AuthenticatedBy string `json:"authenticated_by"`
	ClientIP        string `json:"client_ip"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	basic := middleware.NewBasicAuthenticator(s.Registry)

	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(basic.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
			return
		}

		respondWithJSON(w, http.StatusOK, WhoamiResponse{
			Username:        id.Username,
			AuthenticatedBy: id.Backend,
			ClientIP:        middleware.ClientIP(r, config.Get()),
		})
	}
}
