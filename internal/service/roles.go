package service

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/openheritage/api/internal/model"
	"github.com/openheritage/api/internal/session"
	"golang.org/x/sync/singleflight"
)

const defaultRoleCacheSize = 4096

// RoleService resolves a user's role from their profile document. A role is
// looked up at most once per cached session: concurrent resolutions for the
// same user collapse into a single backend read, and later calls hit the
// cache until the entry is invalidated.
type RoleService struct {
	userRepo UserRepository
	cache    *lru.Cache[string, model.Role]
	group    singleflight.Group
}

// NewRoleService creates a new role service
func NewRoleService(userRepo UserRepository, cacheSize int) (*RoleService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultRoleCacheSize
	}
	cache, err := lru.New[string, model.Role](cacheSize)
	if err != nil {
		return nil, err
	}

	return &RoleService{
		userRepo: userRepo,
		cache:    cache,
	}, nil
}

// ResolveRole returns the user's role, reading the profile document on a
// cache miss. A user with no profile document resolves to the default role;
// no profile is created as a side effect. Malformed role values also degrade
// to the default role rather than failing the resolution.
func (s *RoleService) ResolveRole(ctx context.Context, userID string) (model.Role, error) {
	if role, ok := s.cache.Get(userID); ok {
		return role, nil
	}

	v, err, _ := s.group.Do(userID, func() (interface{}, error) {
		// Re-check under the flight: another caller may have filled the
		// cache between our miss and the flight starting.
		if role, ok := s.cache.Get(userID); ok {
			return role, nil
		}

		profile, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return model.Role(""), err
		}

		role := model.RoleEnthusiast
		if profile != nil && profile.Role.IsValid() {
			role = profile.Role
		}

		s.cache.Add(userID, role)
		return role, nil
	})
	if err != nil {
		return "", err
	}

	return v.(model.Role), nil
}

// TryResolve returns the cached role without blocking. The second return is
// false while no resolution has completed for the user; callers treat that
// as "role unknown" and resolve in the background.
func (s *RoleService) TryResolve(userID string) (model.Role, bool) {
	return s.cache.Get(userID)
}

// Invalidate drops the cached role for a user. The next resolution reads
// the profile document again. Called after any role change.
func (s *RoleService) Invalidate(userID string) {
	s.cache.Remove(userID)
}

// InvalidateAll clears the whole role cache
func (s *RoleService) InvalidateAll() {
	s.cache.Purge()
}

// BindSession invalidates cached roles whenever the session's identity
// changes, so re-authentication always forces a fresh resolution. Returns
// the unsubscribe function.
func (s *RoleService) BindSession(sess *session.Session) func() {
	return sess.OnChange(func(profile *model.UserProfile) {
		if profile != nil {
			s.Invalidate(profile.ID)
			return
		}
		s.InvalidateAll()
	})
}
