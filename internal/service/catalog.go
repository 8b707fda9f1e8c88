package service

import (
	"context"
	"strings"

	"github.com/openheritage/api/internal/model"
)

// EntityRepository defines the interface for catalog entry storage
type EntityRepository interface {
	Create(ctx context.Context, entity *model.Entity) error
	GetByID(ctx context.Context, entityType model.EntityType, id string) (*model.Entity, error)
	List(ctx context.Context, entityType model.EntityType, state string, limit, offset int) ([]*model.Entity, error)
	Delete(ctx context.Context, id string) error
}

// CatalogService handles the heritage catalog: sites, traditions, state
// symbols, and guide profiles. Entries are immutable after creation; the
// only mutations are create and delete, both role-gated.
type CatalogService struct {
	entityRepo  EntityRepository
	interaction *InteractionService
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	EntityRepo  EntityRepository
	Interaction *InteractionService
}

// NewCatalogService creates a new catalog service
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	return &CatalogService{
		entityRepo:  cfg.EntityRepo,
		interaction: cfg.Interaction,
	}
}

// List retrieves catalog entries of one type, optionally filtered by state
func (s *CatalogService) List(ctx context.Context, entityType model.EntityType, state string, limit, offset int) ([]*model.Entity, error) {
	if !entityType.IsValid() {
		return nil, ErrInvalidEntryType
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.entityRepo.List(ctx, entityType, state, limit, offset)
}

// Get retrieves one catalog entry
func (s *CatalogService) Get(ctx context.Context, entityType model.EntityType, id string) (*model.Entity, error) {
	if !entityType.IsValid() {
		return nil, ErrInvalidEntryType
	}

	entity, err := s.entityRepo.GetByID(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntryNotFound
	}
	return entity, nil
}

// Create adds a catalog entry. The caller's role must be in the allow-set
// for the entry type: guides are admin-only, the rest accept creators too.
func (s *CatalogService) Create(ctx context.Context, entityType model.EntityType, user *model.UserProfile, req *model.CreateEntityRequest) (*model.Entity, error) {
	if !entityType.IsValid() {
		return nil, ErrInvalidEntryType
	}
	if !user.CanPublish(entityType) {
		return nil, ErrRoleNotAllowed
	}

	entity := &model.Entity{
		Type:        entityType,
		Name:        strings.TrimSpace(req.Name),
		State:       strings.TrimSpace(req.State),
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Contact:     strings.TrimSpace(req.Contact),
		CreatedBy:   user.ID,
	}

	if err := s.entityRepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Delete removes a catalog entry and cascades its likes and comments.
// Admins and the entry's owner may always delete; content entries (sites,
// traditions, symbols) additionally accept any creator, since creators
// curate that part of the catalog. Guide listings stay owner-or-admin.
func (s *CatalogService) Delete(ctx context.Context, entityType model.EntityType, id string, user *model.UserProfile) error {
	if !entityType.IsValid() {
		return ErrInvalidEntryType
	}

	entity, err := s.entityRepo.GetByID(ctx, entityType, id)
	if err != nil {
		return err
	}
	if entity == nil {
		return ErrEntryNotFound
	}

	allowed := entity.CreatedBy == user.ID || user.IsAdmin()
	if !allowed && entityType != model.EntityGuide && user.Role == model.RoleCreator {
		allowed = true
	}
	if !allowed {
		return ErrNotEntryOwner
	}

	if err := s.entityRepo.Delete(ctx, id); err != nil {
		return err
	}

	return s.interaction.DeleteAllForItem(ctx, id, entityType)
}
