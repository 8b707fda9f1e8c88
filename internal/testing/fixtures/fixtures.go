// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates records with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	creator := f.CreateCreator(t)
//	site := f.CreateSite(t, creator)
//	f.CreateLike(t, site, creator)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test records in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// Profile Fixtures
// ============================================================================

// ProfileOpts customizes profile creation
type ProfileOpts struct {
	Email       string
	DisplayName string
	Password    string
	Role        model.Role
}

// CreateProfile creates a user profile with optional customizations
func (f *Factory) CreateProfile(t *testing.T, opts ...func(*ProfileOpts)) *model.UserProfile {
	t.Helper()

	o := &ProfileOpts{
		Email:       fmt.Sprintf("user_%s@test.local", randomID()),
		DisplayName: fmt.Sprintf("User %s", randomID()),
		Password:    "testpass123",
		Role:        model.RoleEnthusiast,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE userProfiles CONTENT {
			email: $email,
			display_name: $display_name,
			hash: $hash,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":        o.Email,
		"display_name": o.DisplayName,
		"hash":         string(hash),
		"role":         string(o.Role),
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create profile: %v", err)
	}

	profile := parseProfileResult(t, results)
	profile.Hash = nil // Don't expose hash in fixture
	return profile
}

// CreateAdmin creates a profile holding the admin role
func (f *Factory) CreateAdmin(t *testing.T) *model.UserProfile {
	return f.CreateProfile(t, func(o *ProfileOpts) {
		o.Role = model.RoleAdmin
	})
}

// CreateCreator creates a profile holding the creator role
func (f *Factory) CreateCreator(t *testing.T) *model.UserProfile {
	return f.CreateProfile(t, func(o *ProfileOpts) {
		o.Role = model.RoleCreator
	})
}

// ============================================================================
// Catalog Fixtures
// ============================================================================

// EntityOpts customizes catalog entry creation
type EntityOpts struct {
	Name        string
	State       string
	Category    string
	Description string
	ImageURL    string
	Contact     string
}

// CreateEntity creates a catalog entry of the given type, attributed to the
// creator profile
func (f *Factory) CreateEntity(t *testing.T, entityType model.EntityType, creator *model.UserProfile, opts ...func(*EntityOpts)) *model.Entity {
	t.Helper()

	collection := entityType.Collection()
	if collection == "" {
		t.Fatalf("fixtures: unknown entity type %q", entityType)
	}

	o := &EntityOpts{
		Name:        fmt.Sprintf("Entry %s", randomID()),
		State:       "Rajasthan",
		Description: "Test catalog entry",
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE ` + collection + ` CONTENT {
			name: $name,
			state: $state,
			category: $category,
			description: $description,
			image_url: $image_url,
			contact: $contact,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":        o.Name,
		"state":       o.State,
		"category":    o.Category,
		"description": o.Description,
		"image_url":   o.ImageURL,
		"contact":     o.Contact,
		"created_by":  creator.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create %s entry: %v", entityType, err)
	}

	entity := parseEntityResult(t, results)
	entity.Type = entityType
	return entity
}

// CreateSite creates a heritage site entry
func (f *Factory) CreateSite(t *testing.T, creator *model.UserProfile, opts ...func(*EntityOpts)) *model.Entity {
	return f.CreateEntity(t, model.EntitySite, creator, opts...)
}

// CreateTradition creates a tradition entry
func (f *Factory) CreateTradition(t *testing.T, creator *model.UserProfile, opts ...func(*EntityOpts)) *model.Entity {
	return f.CreateEntity(t, model.EntityTradition, creator, opts...)
}

// CreateSymbol creates a state symbol entry
func (f *Factory) CreateSymbol(t *testing.T, creator *model.UserProfile, opts ...func(*EntityOpts)) *model.Entity {
	return f.CreateEntity(t, model.EntitySymbol, creator, opts...)
}

// CreateGuide creates a tour guide listing
func (f *Factory) CreateGuide(t *testing.T, creator *model.UserProfile, opts ...func(*EntityOpts)) *model.Entity {
	return f.CreateEntity(t, model.EntityGuide, creator, func(o *EntityOpts) {
		o.Contact = "guide@test.local"
		for _, fn := range opts {
			fn(o)
		}
	})
}

// ============================================================================
// Interaction Fixtures
// ============================================================================

// CreateLike records a like by the user on the catalog entry
func (f *Factory) CreateLike(t *testing.T, entity *model.Entity, user *model.UserProfile) *model.Like {
	t.Helper()

	query := `
		CREATE likes CONTENT {
			item_id: $item_id,
			item_type: $item_type,
			user_id: $user_id,
			user_name: $user_name,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"item_id":   entity.ID,
		"item_type": string(entity.Type),
		"user_id":   user.ID,
		"user_name": user.DisplayName,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create like: %v", err)
	}

	like := parseLikeResult(t, results)
	like.ItemType = entity.Type
	return like
}

// CommentOpts customizes comment creation
type CommentOpts struct {
	Text string
}

// CreateComment posts a comment by the author on the catalog entry
func (f *Factory) CreateComment(t *testing.T, entity *model.Entity, author *model.UserProfile, opts ...func(*CommentOpts)) *model.Comment {
	t.Helper()

	o := &CommentOpts{
		Text: fmt.Sprintf("Comment %s", randomID()),
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE itemComments CONTENT {
			item_id: $item_id,
			item_type: $item_type,
			text: $text,
			author_id: $author_id,
			author_name: $author_name,
			timestamp: time::now(),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"item_id":     entity.ID,
		"item_type":   string(entity.Type),
		"text":        o.Text,
		"author_id":   author.ID,
		"author_name": author.DisplayName,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create comment: %v", err)
	}

	comment := parseCommentResult(t, results)
	comment.ItemType = entity.Type
	return comment
}

// CreateBoardComment posts a comment by the author on the site-wide culture
// board
func (f *Factory) CreateBoardComment(t *testing.T, author *model.UserProfile, opts ...func(*CommentOpts)) *model.Comment {
	t.Helper()

	o := &CommentOpts{
		Text: fmt.Sprintf("Board comment %s", randomID()),
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE culturalComments CONTENT {
			text: $text,
			author_id: $author_id,
			author_name: $author_name,
			timestamp: time::now(),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"text":        o.Text,
		"author_id":   author.ID,
		"author_name": author.DisplayName,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create board comment: %v", err)
	}

	comment := parseCommentResult(t, results)
	comment.ItemType = model.CultureBoard
	return comment
}

// ============================================================================
// Result Parsing Helpers
// ============================================================================

func parseProfileResult(t *testing.T, results []interface{}) *model.UserProfile {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.UserProfile{
		ID:          getString(data, "id"),
		Email:       getString(data, "email"),
		DisplayName: getString(data, "display_name"),
		PhotoURL:    getStringPtr(data, "photo_url"),
		Role:        model.Role(getString(data, "role")),
		CreatedOn:   getTime(data, "created_on"),
		UpdatedOn:   getTime(data, "updated_on"),
	}
}

func parseEntityResult(t *testing.T, results []interface{}) *model.Entity {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Entity{
		ID:          getString(data, "id"),
		Name:        getString(data, "name"),
		State:       getString(data, "state"),
		Category:    getString(data, "category"),
		Description: getString(data, "description"),
		ImageURL:    getString(data, "image_url"),
		Contact:     getString(data, "contact"),
		CreatedBy:   getString(data, "created_by"),
		CreatedAt:   getTime(data, "created_on"),
	}
}

func parseLikeResult(t *testing.T, results []interface{}) *model.Like {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Like{
		ID:        getString(data, "id"),
		ItemID:    getString(data, "item_id"),
		UserID:    getString(data, "user_id"),
		UserName:  getString(data, "user_name"),
		CreatedOn: getTime(data, "created_on"),
	}
}

func parseCommentResult(t *testing.T, results []interface{}) *model.Comment {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Comment{
		ID:          getString(data, "id"),
		ItemID:      getString(data, "item_id"),
		Text:        getString(data, "text"),
		AuthorID:    getString(data, "author_id"),
		AuthorName:  getString(data, "author_name"),
		AuthorPhoto: getStringPtr(data, "author_photo"),
		Timestamp:   getTime(data, "timestamp"),
	}
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB 3 record ID type - could be a struct or map
	if v := data[key]; v != nil {
		// Try to get the ID as a map with "tb" (table) and "id" fields
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getStringPtr(data map[string]interface{}, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(string); ok {
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	}
	return time.Time{}
}
