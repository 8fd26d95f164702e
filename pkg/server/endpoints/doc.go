// Package endpoints registers the HTTP API on a server.Server.
//
//	GET  /                          service status (HTML, or JSON when asked)
//	GET  /authenticators            installed, configured and enabled authenticators
//	GET  /{authenticator}/status    health of a single authenticator
//	POST /login                     HTTP Basic login through the authenticator chain
//	GET  /whoami                    who the Basic credentials resolve to
//	GET  /metrics                   Prometheus metrics
package endpoints
