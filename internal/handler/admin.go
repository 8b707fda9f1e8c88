package handler

import (
	"context"
	"net/http"

	"github.com/openheritage/api/internal/model"
)

// AdminService is the slice of the admin service the handler consumes
type AdminService interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*model.UserProfile, error)
	SetRole(ctx context.Context, userID string, role model.Role) (*model.UserProfile, error)
}

// AdminHandler handles the admin panel endpoints. Routes are mounted behind
// the admin-only role gate; the service layer re-checks nothing here.
type AdminHandler struct {
	admin AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin AdminService) *AdminHandler {
	return &AdminHandler{
		admin: admin,
	}
}

// SetRoleRequest represents the role change request body
type SetRoleRequest struct {
	Role string `json:"role"`
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	users, err := h.admin.ListUsers(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	profiles := make([]ProfileResponse, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, toProfileResponse(u))
	}

	WriteCollection(w, http.StatusOK, profiles, &PaginationInfo{
		Limit:  limit,
		Offset: offset,
		Count:  len(profiles),
	}, nil)
}

// SetRole handles PATCH /v1/admin/users/{userId}/role
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req SetRoleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	profile, err := h.admin.SetRole(r.Context(), r.PathValue("userId"), model.Role(req.Role))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, toProfileResponse(profile), nil)
}
