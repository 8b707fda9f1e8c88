package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/openheritage/api/internal/middleware"
	"github.com/openheritage/api/internal/model"
)

// CatalogService is the slice of the catalog service the handler consumes
type CatalogService interface {
	List(ctx context.Context, entityType model.EntityType, state string, limit, offset int) ([]*model.Entity, error)
	Get(ctx context.Context, entityType model.EntityType, id string) (*model.Entity, error)
	Create(ctx context.Context, entityType model.EntityType, user *model.UserProfile, req *model.CreateEntityRequest) (*model.Entity, error)
	Delete(ctx context.Context, entityType model.EntityType, id string, user *model.UserProfile) error
}

// ProfileSource loads the profile of an authenticated user
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
}

// CatalogHandler handles heritage catalog endpoints. The four entry
// collections share one handler; each route binds a method to a concrete
// entity type.
type CatalogHandler struct {
	catalog  CatalogService
	profiles ProfileSource
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogService, profiles ProfileSource) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		profiles: profiles,
	}
}

// List handles GET /v1/{collection} for one entity type
func (h *CatalogHandler) List(entityType model.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 50)
		offset := queryInt(r, "offset", 0)
		state := r.URL.Query().Get("state")

		entries, err := h.catalog.List(r.Context(), entityType, state, limit, offset)
		if err != nil {
			WriteError(w, MapServiceError(err))
			return
		}

		WriteCollection(w, http.StatusOK, entries, &PaginationInfo{
			Limit:  limit,
			Offset: offset,
			Count:  len(entries),
		}, nil)
	}
}

// Get handles GET /v1/{collection}/{id} for one entity type
func (h *CatalogHandler) Get(entityType model.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := h.catalog.Get(r.Context(), entityType, r.PathValue("id"))
		if err != nil {
			WriteError(w, MapServiceError(err))
			return
		}

		WriteData(w, http.StatusOK, entry, nil)
	}
}

// Create handles POST /v1/{collection} for one entity type
func (h *CatalogHandler) Create(entityType model.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pd := h.requireProfile(r)
		if pd != nil {
			WriteError(w, pd)
			return
		}

		var req model.CreateEntityRequest
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
		if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
			WriteError(w, model.NewValidationError(fieldErrors))
			return
		}

		entry, err := h.catalog.Create(r.Context(), entityType, user, &req)
		if err != nil {
			WriteError(w, MapServiceError(err))
			return
		}

		WriteData(w, http.StatusCreated, entry, nil)
	}
}

// Delete handles DELETE /v1/{collection}/{id} for one entity type
func (h *CatalogHandler) Delete(entityType model.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pd := h.requireProfile(r)
		if pd != nil {
			WriteError(w, pd)
			return
		}

		if err := h.catalog.Delete(r.Context(), entityType, r.PathValue("id"), user); err != nil {
			WriteError(w, MapServiceError(err))
			return
		}

		WriteNoContent(w)
	}
}

func (h *CatalogHandler) requireProfile(r *http.Request) (*model.UserProfile, *model.ProblemDetails) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		return nil, model.NewUnauthorizedError("authentication required")
	}
	user, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		return nil, MapServiceError(err)
	}
	return user, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
