package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// ChangeAction identifies what kind of mutation a live notification reports
type ChangeAction string

const (
	ChangeCreate ChangeAction = "CREATE"
	ChangeUpdate ChangeAction = "UPDATE"
	ChangeDelete ChangeAction = "DELETE"
)

// Change is a single live-query notification for a watched collection.
// Record carries the changed row when the store provides one; consumers use
// it only to locate the affected item and then re-read the full row set
// rather than patching local state.
type Change struct {
	Collection string
	Action     ChangeAction
	Record     map[string]interface{}
}

// Database defines the interface for document store operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error

	// Watch opens a live query on a collection. Every matching change is
	// delivered on the returned channel until stop is called or ctx ends;
	// stop closes the channel synchronously with respect to new deliveries.
	Watch(ctx context.Context, collection string) (<-chan Change, func(), error)
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
