// Package metrics exposes Prometheus counters for logins and impersonations.
// The server serves them on /metrics.
package metrics
