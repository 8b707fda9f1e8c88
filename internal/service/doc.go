// Package service implements the business logic layer for the OpenHeritage API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Roles and Interactions
//
// Two services carry the platform's core rules. RoleService resolves a
// user's role from their profile document exactly once per cached session,
// collapsing concurrent lookups and defaulting absent profiles to
// enthusiast. InteractionService owns likes and comments: every write
// rebuilds the affected item's full snapshot from the stored row sets and
// publishes it through SnapshotHub, so subscriber state and counts always
// equal the rows that exist.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrEntryNotFound  = errors.New("catalog entry not found")
//	    ErrRoleNotAllowed = errors.New("role not permitted for this action")
//	)
package service
