// Package session models the per-connection identity session.
//
// A Session owns the current signed-in UserProfile and notifies subscribers
// on every auth-state change (sign-in, sign-out, re-authentication).
// Sign-out notifies synchronously before returning so dependent state is
// torn down deterministically.
package session
