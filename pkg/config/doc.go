// Package config provides configuration management for impersonate-auth.
//
// Configuration is loaded from an optional YAML file and environment
// variables. Environment variables take precedence, and every attribute
// remembers where its value came from (default, file or environment) so
// "impersonatectl configuration show" can report it.
//
// # Configuration Sources
//
//   - $IMPERSONATE_AUTH_CONFIG_PATH/impersonate-auth.yml (default /etc/impersonate-auth)
//   - Environment variables
//
// # Key Configuration Options
//
//   - IMPERSONATE_AUTH_SEPARATOR: composite secret separator (default ":")
//   - IMPERSONATE_AUTH_AUTHENTICATORS: ordered authenticator chain
//   - IMPERSONATE_AUTH_AUDIT_ENABLED: RFC5424 audit logging
//   - IMPERSONATE_AUTH_LOG_LEVEL: zerolog level
//   - IMPERSONATE_AUTH_TRUSTED_PROXIES: CIDRs allowed to set X-Forwarded-For
//
// # Reloading
//
// Get returns the current configuration and is cheap enough to call on every
// request. Reload re-reads file and environment; Watch does so when the file
// changes. The authenticators read the separator through Get on each call, so
// a reload takes effect on the next login without a restart.
package config
