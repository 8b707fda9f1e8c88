package repository

import (
	"context"
	"fmt"

	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/model"
)

// LikeRepository handles like data access. All likes for all item types
// share one collection, keyed by (item_id, item_type, user_id).
type LikeRepository struct {
	db database.Database
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db database.Database) *LikeRepository {
	return &LikeRepository{db: db}
}

// ListForItem retrieves every like row for one item, oldest first
func (r *LikeRepository) ListForItem(ctx context.Context, itemID string, itemType model.EntityType) ([]*model.Like, error) {
	query := `
		SELECT * FROM likes
		WHERE item_id = $item_id
		AND item_type = $item_type
		ORDER BY created_on ASC
	`
	vars := map[string]interface{}{
		"item_id":   itemID,
		"item_type": itemType,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}

	likes := make([]*model.Like, 0)
	forEachRow(result, func(row map[string]interface{}) {
		likes = append(likes, parseLike(row))
	})
	return likes, nil
}

// Create inserts a like row for the user on the item
func (r *LikeRepository) Create(ctx context.Context, like *model.Like) error {
	query := `
		CREATE likes CONTENT {
			item_id: $item_id,
			item_type: $item_type,
			user_id: $user_id,
			user_name: IF $user_name != "" THEN $user_name ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"item_id":   like.ItemID,
		"item_type": like.ItemType,
		"user_id":   like.UserID,
		"user_name": like.UserName,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: like already exists", database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return fmt.Errorf("failed to extract created like: %w", err)
	}

	like.ID = created.ID
	like.CreatedOn = created.CreatedOn
	return nil
}

// DeleteForUser removes the user's like rows for the item. Deleting by the
// full tuple rather than by row ID clears every matching row, so an item can
// never be left half-unliked if duplicates ever slipped in.
func (r *LikeRepository) DeleteForUser(ctx context.Context, itemID string, itemType model.EntityType, userID string) error {
	query := `
		DELETE likes
		WHERE item_id = $item_id
		AND item_type = $item_type
		AND user_id = $user_id
	`
	vars := map[string]interface{}{
		"item_id":   itemID,
		"item_type": itemType,
		"user_id":   userID,
	}

	return r.db.Execute(ctx, query, vars)
}

// DeleteForItem removes every like row for an item. Used when a catalog
// entry is deleted so interaction rows never outlive their item.
func (r *LikeRepository) DeleteForItem(ctx context.Context, itemID string, itemType model.EntityType) error {
	query := `
		DELETE likes
		WHERE item_id = $item_id
		AND item_type = $item_type
	`
	vars := map[string]interface{}{
		"item_id":   itemID,
		"item_type": itemType,
	}

	return r.db.Execute(ctx, query, vars)
}

func parseLike(data map[string]interface{}) *model.Like {
	like := &model.Like{
		ID:       convertSurrealID(data["id"]),
		ItemID:   getString(data, "item_id"),
		ItemType: model.EntityType(getString(data, "item_type")),
		UserID:   getString(data, "user_id"),
		UserName: getString(data, "user_name"),
	}
	if t := getTime(data, "created_on"); t != nil {
		like.CreatedOn = *t
	}
	return like
}
