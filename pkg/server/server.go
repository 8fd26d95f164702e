package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store"
)

type Server struct {
	Router      *mux.Router
	Registry    *authenticator.Registry
	UsersStore  store.UsersStore
	HealthStore store.HealthStore
	srv         *http.Server
}

func NewServer(
	registry *authenticator.Registry,
	users store.UsersStore,
	health store.HealthStore,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         net.JoinHostPort(host, port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:      router,
		Registry:    registry,
		UsersStore:  users,
		HealthStore: health,
		srv:         srv,
	}
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Handler returns the root handler, including access logging
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Serve accepts connections on an existing listener
func (s *Server) Serve(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
