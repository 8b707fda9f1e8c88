// Package helpers provides test utility functions for the OpenHeritage API.
//
// The helpers package contains common test utilities for request building,
// assertions, and JWT token generation.
//
// # JWT Helpers
//
// Generate test JWT tokens backed by an in-memory secret:
//
//	jh := helpers.NewJWTHelper(t)
//	token := jh.GenerateToken(t, user)
//	expired := jh.GenerateExpiredToken(t, user)
//
// # Request Builders
//
// Construct API requests fluently:
//
//	req := helpers.NewRequest(t, "POST", "/v1/sites").
//		WithBody(payload).
//		WithAuth(jh, creator).
//		Build()
//
// # Assertion Helpers
//
// Common test assertions:
//
//	helpers.AssertStatus(t, resp, http.StatusOK)
//	helpers.AssertProblemDetails(t, resp, 403, model.ErrCodeForbidden)
//	helpers.AssertRecordExists(t, db, "sites", site.ID)
package helpers
