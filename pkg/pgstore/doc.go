// Package pgstore is the Postgres adapter for the backend queries the access
// core consumes: commercial status, role and billing customer references.
//
// Connect opens a pgx pool with retries; Migrate applies the embedded goose
// migrations. StatusStore and RoleStore implement subscription.Source and
// role.Source. A user without a row is reported as not subscribed and as a
// standard user, never as an error.
package pgstore
