package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/model"
)

// EntityRepository handles catalog entry data access. One repository serves
// all four collections; the entity type selects the collection.
type EntityRepository struct {
	db database.Database
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(db database.Database) *EntityRepository {
	return &EntityRepository{db: db}
}

// Create inserts a new catalog entry into the collection for its type.
// Entries are immutable once created.
func (r *EntityRepository) Create(ctx context.Context, entity *model.Entity) error {
	collection := entity.Type.Collection()
	if collection == "" {
		return fmt.Errorf("unknown entity type %q", entity.Type)
	}

	vars := map[string]interface{}{
		"name":       entity.Name,
		"created_by": entity.CreatedBy,
	}

	optionalFields := ""
	if entity.State != "" {
		optionalFields += ",\n\t\t\tstate: $state"
		vars["state"] = entity.State
	}
	if entity.Category != "" {
		optionalFields += ",\n\t\t\tcategory: $category"
		vars["category"] = entity.Category
	}
	if entity.Description != "" {
		optionalFields += ",\n\t\t\tdescription: $description"
		vars["description"] = entity.Description
	}
	if entity.ImageURL != "" {
		optionalFields += ",\n\t\t\timage_url: $image_url"
		vars["image_url"] = entity.ImageURL
	}
	if entity.Contact != "" {
		optionalFields += ",\n\t\t\tcontact: $contact"
		vars["contact"] = entity.Contact
	}

	query := `
		CREATE ` + collection + ` CONTENT {
			name: $name,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()` + optionalFields + `
		}
	`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("failed to create %s entry: %w", entity.Type, err)
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return fmt.Errorf("failed to extract created entry: %w", err)
	}

	entity.ID = created.ID
	entity.CreatedAt = created.CreatedOn
	return nil
}

// GetByID retrieves a catalog entry. Returns nil, nil when the record does
// not exist.
func (r *EntityRepository) GetByID(ctx context.Context, entityType model.EntityType, id string) (*model.Entity, error) {
	query := `SELECT * FROM type::record($id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s entry: %w", entityType, err)
	}

	row, ok := unwrapRow(result)
	if !ok {
		return nil, nil
	}
	return parseEntity(entityType, row)
}

// List retrieves catalog entries of one type, newest first. An empty state
// filter returns all entries.
func (r *EntityRepository) List(ctx context.Context, entityType model.EntityType, state string, limit, offset int) ([]*model.Entity, error) {
	collection := entityType.Collection()
	if collection == "" {
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}

	query := `SELECT * FROM ` + collection
	vars := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	if state != "" {
		query += ` WHERE state = $state`
		vars["state"] = state
	}

	query += ` ORDER BY created_on DESC LIMIT $limit START $offset`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", entityType, err)
	}

	entities := make([]*model.Entity, 0)
	forEachRow(result, func(row map[string]interface{}) {
		if e, err := parseEntity(entityType, row); err == nil {
			entities = append(entities, e)
		}
	})
	return entities, nil
}

// Delete removes a catalog entry
func (r *EntityRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id})
}

func parseEntity(entityType model.EntityType, data map[string]interface{}) (*model.Entity, error) {
	if data == nil {
		return nil, errors.New("unexpected result format")
	}

	entity := &model.Entity{
		ID:          convertSurrealID(data["id"]),
		Type:        entityType,
		Name:        getString(data, "name"),
		State:       getString(data, "state"),
		Category:    getString(data, "category"),
		Description: getString(data, "description"),
		ImageURL:    getString(data, "image_url"),
		Contact:     getString(data, "contact"),
		CreatedBy:   convertSurrealID(data["created_by"]),
	}

	if t := getTime(data, "created_on"); t != nil {
		entity.CreatedAt = *t
	}

	return entity, nil
}
