package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/openheritage/api/internal/model"
)

type stubRoleResolver struct {
	mu       sync.Mutex
	roles    map[string]model.Role
	cached   map[string]model.Role
	resolves int
}

func newStubRoleResolver() *stubRoleResolver {
	return &stubRoleResolver{
		roles:  make(map[string]model.Role),
		cached: make(map[string]model.Role),
	}
}

func (s *stubRoleResolver) ResolveRole(ctx context.Context, userID string) (model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolves++
	role, ok := s.roles[userID]
	if !ok {
		role = model.RoleEnthusiast
	}
	s.cached[userID] = role
	return role, nil
}

func (s *stubRoleResolver) TryResolve(userID string) (model.Role, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.cached[userID]
	return role, ok
}

func gateRequest(t *testing.T, resolver RoleResolver, allow model.AllowSet, userID, accept string) *httptest.ResponseRecorder {
	t.Helper()
	next, _ := okHandler()
	handler := RoleGate(resolver, allow)(next)

	req := httptest.NewRequest("GET", "/v1/sites", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRoleGate_AllowsPermittedRole(t *testing.T) {
	t.Parallel()

	resolver := newStubRoleResolver()
	resolver.roles["userProfiles:alice"] = model.RoleCreator

	var gotRole model.Role
	handler := RoleGate(resolver, model.AllowSetFor(model.EntitySite))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/v1/sites", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, "userProfiles:alice"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotRole != model.RoleCreator {
		t.Errorf("expected role in context, got %q", gotRole)
	}
}

func TestRoleGate_DeniesAPIWith403(t *testing.T) {
	t.Parallel()

	resolver := newStubRoleResolver()
	resolver.roles["userProfiles:bob"] = model.RoleEnthusiast

	rec := gateRequest(t, resolver, model.AllowSetFor(model.EntitySite), "userProfiles:bob", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRoleGate_DeniesBrowserWithSilentRedirect(t *testing.T) {
	t.Parallel()

	resolver := newStubRoleResolver()
	resolver.roles["userProfiles:bob"] = model.RoleEnthusiast
	// Pre-resolve so the browser path sees a cached role
	if _, err := resolver.ResolveRole(context.Background(), "userProfiles:bob"); err != nil {
		t.Fatal(err)
	}

	rec := gateRequest(t, resolver, model.AllowSetFor(model.EntitySite), "userProfiles:bob", "text/html")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to landing page, got %q", loc)
	}
	if rec.Body.Len() > 100 {
		t.Error("denial must not render an error page")
	}
}

func TestRoleGate_GuideDeniedEverywhereCreatorsAllowed(t *testing.T) {
	t.Parallel()

	resolver := newStubRoleResolver()
	resolver.roles["userProfiles:guide"] = model.RoleGuide

	rec := gateRequest(t, resolver, model.AllowSetFor(model.EntityTradition), "userProfiles:guide", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected guide denied from creator surface, got %d", rec.Code)
	}
}

func TestRoleGate_UnresolvedBrowserGets204(t *testing.T) {
	t.Parallel()

	resolver := newStubRoleResolver()
	resolver.roles["userProfiles:alice"] = model.RoleAdmin

	rec := gateRequest(t, resolver, model.AllowSet{model.RoleAdmin}, "userProfiles:alice", "text/html")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 while role unresolved, got %d", rec.Code)
	}
	if rec.Header().Get("Location") != "" {
		t.Error("unresolved role must not redirect")
	}

	// Background resolution fills the cache for the next request
	deadline := time.After(2 * time.Second)
	for {
		if _, ok := resolver.TryResolve("userProfiles:alice"); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("background resolution never completed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rec = gateRequest(t, resolver, model.AllowSet{model.RoleAdmin}, "userProfiles:alice", "text/html")
	if rec.Code != http.StatusOK {
		t.Errorf("expected admin admitted once resolved, got %d", rec.Code)
	}
}

func TestRoleGate_UnauthenticatedAPI(t *testing.T) {
	t.Parallel()

	resolver := newStubRoleResolver()
	rec := gateRequest(t, resolver, model.AllowSet{model.RoleAdmin}, "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 before any role check, got %d", rec.Code)
	}
	if resolver.resolves != 0 {
		t.Error("role must not be resolved for unauthenticated requests")
	}
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	resolver := newStubRoleResolver()
	resolver.roles["userProfiles:root"] = model.RoleAdmin
	resolver.roles["userProfiles:carol"] = model.RoleCreator

	next, _ := okHandler()
	handler := AdminOnly(resolver)(next)

	req := httptest.NewRequest("GET", "/v1/admin/users", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, "userProfiles:root"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected admin admitted, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/v1/admin/users", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, "userProfiles:carol"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected creator denied from admin panel, got %d", rec.Code)
	}
}
