// Package database provides the SurrealDB connection used by the surreal
// activity store.
//
// The Database interface abstracts query execution so repositories can be
// tested against a fake:
//   - Query: Returns the per-statement results
//   - Execute: No return value (for DEFINE/CREATE/UPDATE statements)
//
// # Transaction Support
//
// Transactions are BATCH-BASED, not connection-level. Statements added to a
// Transaction accumulate in memory and are sent wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION when Commit is called. Rollback
// discards the batch.
//
// # Error Handling
//
// Standard errors are defined for common failure cases; check them with
// errors.Is. The other activity stores reuse ErrNotFound and ErrDuplicate so
// the service layer sees one vocabulary regardless of backend.
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates the write would break a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error

	// Transaction support
	BeginTx(ctx context.Context) (Transaction, error)
}

// Transaction represents a batched database transaction
type Transaction interface {
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
	Commit() error
	Rollback() error
}

// Config holds SurrealDB connection settings
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
