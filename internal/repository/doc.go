// Package repository implements the data access layer for the OpenHeritage API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles CRUD operations for a specific domain slice:
// user profiles, the catalog collections (sites, traditions, state symbols,
// guides), likes, and comments.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Delete, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//
// # Counts
//
// Like and comment counts are never stored or incremented. Callers always
// read the full row set for an item and take its length, so a count can
// never drift from the rows backing it.
package repository
