package middleware

import (
	"context"
	"net/http"

	"github.com/openheritage/api/internal/model"
)

// RoleResolver defines the interface for role resolution
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (model.Role, error)
	TryResolve(userID string) (model.Role, bool)
}

// RoleKey is the context key for the resolved role
const RoleKey contextKey = "role"

// GetRole extracts the resolved role from context
func GetRole(ctx context.Context) model.Role {
	if role, ok := ctx.Value(RoleKey).(model.Role); ok {
		return role
	}
	return ""
}

// RoleGate returns a middleware that admits only the given roles. It must
// run after Auth.
//
// API requests block until the role is resolved and get 403 on denial.
// Browser requests never wait and never render a denial page: while the
// role is still unresolved they get 204 with the resolution kicked off in
// the background, and once resolved a denial is a silent redirect to the
// landing page.
func RoleGate(resolver RoleResolver, allow model.AllowSet) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				if wantsHTML(r) {
					http.Redirect(w, r, LoginPath, http.StatusFound)
					return
				}
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			var role model.Role
			if wantsHTML(r) {
				cached, ok := resolver.TryResolve(userID)
				if !ok {
					// Role unknown: answer with nothing rather than a wrong
					// page, and resolve for the next request.
					go func() {
						_, _ = resolver.ResolveRole(context.WithoutCancel(r.Context()), userID)
					}()
					w.WriteHeader(http.StatusNoContent)
					return
				}
				role = cached
			} else {
				resolved, err := resolver.ResolveRole(r.Context(), userID)
				if err != nil {
					model.NewBackendUnavailableError("role lookup failed").WriteJSON(w)
					return
				}
				role = resolved
			}

			if !allow.Contains(role) {
				if wantsHTML(r) {
					http.Redirect(w, r, "/", http.StatusFound)
					return
				}
				model.NewForbiddenError("insufficient role").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly is a RoleGate admitting only admins
func AdminOnly(resolver RoleResolver) Middleware {
	return RoleGate(resolver, model.AllowSet{model.RoleAdmin})
}
