// Package model defines domain entities and data structures for the
// heritage platform API.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - UserProfile: Application user with a resolved platform role
//   - Entity: A catalogued content record (site, tradition, symbol, guide)
//   - Like: A single user's like on a catalog entry
//   - Comment: A user comment on an entry or on the culture board
//
// # Roles
//
// Roles form a closed set (enthusiast, creator, guide, admin) and govern
// which creation and deletion actions are permitted. AllowSet models the set
// of roles a gate accepts.
//
// # Validation
//
// Request types expose Validate() []FieldError which rejects malformed input
// before any backend call is attempted.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
