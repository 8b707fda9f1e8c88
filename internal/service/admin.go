package service

import (
	"context"

	"github.com/openheritage/api/internal/model"
)

// AdminService handles the admin panel operations: listing users and
// changing their roles.
type AdminService struct {
	userRepo    UserRepository
	roleService *RoleService
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo UserRepository, roleService *RoleService) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		roleService: roleService,
	}
}

// ListUsers retrieves user profiles for the admin panel
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*model.UserProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, limit, offset)
}

// SetRole changes a user's role and drops their cached resolution so the
// next role lookup sees the new value.
func (s *AdminService) SetRole(ctx context.Context, userID string, role model.Role) (*model.UserProfile, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		return nil, err
	}

	s.roleService.Invalidate(userID)

	profile.Role = role
	return profile, nil
}
