package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/model"
)

// CommentRepository handles comment data access. Item comments live in the
// itemComments collection; the site-wide culture board has its own
// culturalComments collection with no item reference.
type CommentRepository struct {
	db database.Database
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db database.Database) *CommentRepository {
	return &CommentRepository{db: db}
}

func commentCollection(itemType model.EntityType) string {
	if itemType == model.CultureBoard {
		return "culturalComments"
	}
	return "itemComments"
}

// ListForItem retrieves every comment for one item, oldest first
func (r *CommentRepository) ListForItem(ctx context.Context, itemID string, itemType model.EntityType) ([]*model.Comment, error) {
	query := `
		SELECT * FROM itemComments
		WHERE item_id = $item_id
		AND item_type = $item_type
		ORDER BY timestamp ASC
	`
	vars := map[string]interface{}{
		"item_id":   itemID,
		"item_type": itemType,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]*model.Comment, 0)
	forEachRow(result, func(row map[string]interface{}) {
		comments = append(comments, parseComment(itemType, row))
	})
	return comments, nil
}

// ListBoard retrieves culture board comments, oldest first
func (r *CommentRepository) ListBoard(ctx context.Context, limit, offset int) ([]*model.Comment, error) {
	query := `SELECT * FROM culturalComments ORDER BY timestamp ASC LIMIT $limit START $offset`
	vars := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list board comments: %w", err)
	}

	comments := make([]*model.Comment, 0)
	forEachRow(result, func(row map[string]interface{}) {
		comments = append(comments, parseComment(model.CultureBoard, row))
	})
	return comments, nil
}

// Create inserts a comment. The timestamp is always server-assigned.
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	collection := commentCollection(comment.ItemType)

	vars := map[string]interface{}{
		"text":         comment.Text,
		"author_id":    comment.AuthorID,
		"author_name":  comment.AuthorName,
		"author_photo": ptrToNone(comment.AuthorPhoto),
	}

	itemFields := ""
	if comment.ItemType != model.CultureBoard {
		itemFields = `
			item_id: $item_id,
			item_type: $item_type,`
		vars["item_id"] = comment.ItemID
		vars["item_type"] = comment.ItemType
	}

	query := `
		CREATE ` + collection + ` CONTENT {` + itemFields + `
			text: $text,
			author_id: $author_id,
			author_name: $author_name,
			author_photo: IF $author_photo IS NOT NULL THEN $author_photo ELSE NONE END,
			timestamp: time::now(),
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return fmt.Errorf("failed to extract created comment: %w", err)
	}

	comment.ID = created.ID
	comment.Timestamp = created.CreatedOn
	return nil
}

// GetByID retrieves a comment by record ID. Returns nil, nil when the record
// does not exist.
func (r *CommentRepository) GetByID(ctx context.Context, itemType model.EntityType, id string) (*model.Comment, error) {
	query := `SELECT * FROM type::record($id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	row, ok := unwrapRow(result)
	if !ok {
		return nil, nil
	}
	return parseComment(itemType, row), nil
}

// Delete removes a comment by record ID
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id})
}

// DeleteForItem removes every comment for an item
func (r *CommentRepository) DeleteForItem(ctx context.Context, itemID string, itemType model.EntityType) error {
	query := `
		DELETE itemComments
		WHERE item_id = $item_id
		AND item_type = $item_type
	`
	vars := map[string]interface{}{
		"item_id":   itemID,
		"item_type": itemType,
	}

	return r.db.Execute(ctx, query, vars)
}

func parseComment(itemType model.EntityType, data map[string]interface{}) *model.Comment {
	comment := &model.Comment{
		ID:          convertSurrealID(data["id"]),
		ItemID:      getString(data, "item_id"),
		ItemType:    itemType,
		Text:        getString(data, "text"),
		AuthorID:    getString(data, "author_id"),
		AuthorName:  getString(data, "author_name"),
		AuthorPhoto: getStringPtr(data, "author_photo"),
	}
	if stored := getString(data, "item_type"); stored != "" {
		comment.ItemType = model.EntityType(stored)
	}
	if t := getTime(data, "timestamp"); t != nil {
		comment.Timestamp = *t
	}
	return comment
}
