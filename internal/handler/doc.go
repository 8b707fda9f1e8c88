// Package handler provides HTTP request handlers for the OpenHeritage API.
//
// Each handler struct encapsulates the services needed to serve one feature
// area (authentication, catalog, interactions, administration). Handlers
// depend on small consumer-side interfaces so tests can substitute fakes
// without standing up real storage.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) accepts its service dependencies
//   - Methods handle specific HTTP endpoints, routed by method + pattern
//   - Response helpers from response.go standardize output format
//   - Service errors are mapped to RFC 9457 Problem Details by MapServiceError
//
// # Response Format
//
//   - WriteData: single resource with optional links
//   - WriteCollection: list of resources with offset pagination
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Protected handlers read the user ID placed in the request context by the
// auth middleware. Role enforcement happens in the role gate middleware and
// again in the service layer; handlers never inspect roles themselves.
package handler
