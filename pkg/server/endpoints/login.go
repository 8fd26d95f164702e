package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/middleware"
)

// RegisterLoginEndpoint registers POST /login. The request carries HTTP Basic
// credentials; the response is the identity the authenticator chain resolved.
func RegisterLoginEndpoint(s *server.Server) {
	basic := middleware.NewBasicAuthenticator(s.Registry)
	s.Router.Handle("/login", basic.Middleware(handleLogin())).Methods("POST")
}

func handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "unable to determine identity")
			return
		}
		respondWithJSON(w, http.StatusOK, id)
	}
}
