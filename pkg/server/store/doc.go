// Package store provides storage abstractions for impersonate-auth.
//
// This package defines interfaces for database operations, allowing the
// authenticators and endpoints to be decoupled from the specific database
// implementation.
//
// # Available Stores
//
//   - UsersStore: user lookup, creation and activation
//   - HealthStore: database connectivity checks
//
// Implementations live in the gorm (PostgreSQL) and memory subpackages.
//
// # Usage
//
//	users := gorm.NewUsersStore(db)
//	user, err := users.FindByUsername(ctx, "alice")
//	if err != nil {
//	    if errors.Is(err, store.ErrUserNotFound) {
//	        // Handle not found
//	    }
//	}
package store
