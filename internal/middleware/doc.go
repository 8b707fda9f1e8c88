// Package middleware provides HTTP middleware for the OpenHeritage API.
//
// Middlewares compose with Chain:
//
//	handler = middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	    middleware.CORS(origins),
//	    middleware.Metrics(collector),
//	)
//
// # Access Control
//
// Auth validates bearer tokens and loads the caller's identity into the
// request context. RoleGate sits behind Auth and admits only the configured
// roles, resolving the caller's role through the role cache. The two always
// compose in that order: the authenticated gate runs before any role check,
// so an expired session redirects to login rather than failing a role test.
//
// Browser requests (Accept: text/html) are never shown an error page by
// either gate: missing authentication redirects to the login page, a
// disallowed role redirects to the landing page, and an unresolved role
// answers 204 while resolution proceeds in the background. API clients get
// RFC 9457 problem responses instead.
package middleware
