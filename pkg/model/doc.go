// Package model defines the database models for impersonate-auth.
//
// # Core Models
//
//   - User: an account with a bcrypt password hash and the active,
//     superuser and staff flags read by the impersonation policy
//
// # Database Schema
//
// The schema lives in db/migrations:
//
//   - users: accounts
//   - messages: audit messages written by the audit package
package model
