// Command impersonatectl runs the impersonate-auth server.
//
// impersonate-auth logs users in through an ordered chain of authenticators.
// Next to plain username and password login (authn), the authn-impersonate
// authenticator lets an active superuser sign in as another active,
// non-superuser account by sending the target's username together with a
// composite secret of the form "<impersonator><separator><password>".
//
// # Quick Start
//
//	# Run database migrations
//	impersonatectl db migrate
//
//	# Create a superuser and a regular user
//	impersonatectl user create root --superuser
//	impersonatectl user create alice
//
//	# Start the server
//	impersonatectl server
//
//	# Log in as alice using root's password
//	curl -u 'alice:root:<root password>' -X POST http://localhost:8000/login
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string; without it users are kept in memory
//   - AUDIT_DATABASE_URL: PostgreSQL connection string for persisted audit messages
//   - IMPERSONATE_AUTH_CONFIG_PATH: directory holding impersonate-auth.yml
//   - IMPERSONATE_AUTH_SEPARATOR: composite secret separator (default ":")
//   - IMPERSONATE_AUTH_AUTHENTICATORS: comma-separated authenticator chain
//   - IMPERSONATE_AUTH_AUDIT_ENABLED: "false" turns audit messages off
//   - IMPERSONATE_AUTH_LOG_LEVEL: trace, debug, info, warn or error
//   - IMPERSONATE_AUTH_TRUSTED_PROXIES: CIDRs allowed to set X-Forwarded-For
//   - PORT: Server port (default: 8000)
package main
