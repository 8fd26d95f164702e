// Package server provides the HTTP server for impersonate-auth.
//
// The server wraps a gorilla/mux router with access logging. Routes are
// registered by the endpoints package:
//
//	srv := server.NewServer(registry, users, health, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	srv.Start()
//
// # Endpoints
//
//   - GET /: service status
//   - GET /authenticators: installed and enabled authenticators
//   - GET /{authenticator}/status: authenticator health
//   - POST /login: HTTP Basic login through the authenticator chain
//   - GET /whoami: the identity behind HTTP Basic credentials
//   - GET /metrics: Prometheus metrics
package server
