// Package memory provides in-memory implementations of the store interfaces,
// used by tests and by the server when no DATABASE_URL is configured.
package memory
