package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/model"
)

// UserRepository handles user profile data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user profile. New profiles always start as
// enthusiasts unless a role was set explicitly.
func (r *UserRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	role := profile.Role
	if role == "" {
		role = model.RoleEnthusiast
	}

	query := `
		CREATE userProfiles CONTENT {
			display_name: $display_name,
			email: $email,
			photo_url: IF $photo_url IS NOT NULL THEN $photo_url ELSE NONE END,
			role: $role,
			hash: IF $hash IS NOT NULL THEN $hash ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"display_name": profile.DisplayName,
		"email":        profile.Email,
		"photo_url":    ptrToNone(profile.PhotoURL),
		"role":         role,
		"hash":         ptrToNone(profile.Hash),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	profile.ID = created.ID
	profile.Role = role
	profile.CreatedOn = created.CreatedOn
	profile.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user profile by ID. Returns nil, nil when no profile
// document exists for the ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.UserProfile, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	row, ok := unwrapRow(result)
	if !ok {
		return nil, nil
	}
	return parseProfile(row)
}

// GetByEmail retrieves a user profile by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	query := `SELECT * FROM userProfiles WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	row, ok := unwrapRow(result)
	if !ok {
		return nil, nil
	}
	return parseProfile(row)
}

// List retrieves user profiles ordered by creation time
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*model.UserProfile, error) {
	query := `SELECT * FROM userProfiles ORDER BY created_on DESC LIMIT $limit START $offset`
	vars := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*model.UserProfile, 0)
	forEachRow(result, func(row map[string]interface{}) {
		if p, err := parseProfile(row); err == nil {
			profiles = append(profiles, p)
		}
	})
	return profiles, nil
}

// SetRole updates a user's role field
func (r *UserRepository) SetRole(ctx context.Context, userID string, role model.Role) error {
	query := `UPDATE type::record($id) SET role = $role, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":   userID,
		"role": role,
	}

	return r.db.Execute(ctx, query, vars)
}

// UpdatePassword updates a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, hash string) error {
	query := `UPDATE type::record($id) SET hash = $hash, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":   userID,
		"hash": hash,
	}

	return r.db.Execute(ctx, query, vars)
}

// UpdateProfile updates the mutable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *model.UserProfile) error {
	query := `
		UPDATE type::record($id) SET
			display_name = $display_name,
			photo_url = $photo_url,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":           profile.ID,
		"display_name": profile.DisplayName,
		"photo_url":    profile.PhotoURL,
	}

	return r.db.Execute(ctx, query, vars)
}

func parseProfile(data map[string]interface{}) (*model.UserProfile, error) {
	if data == nil {
		return nil, errors.New("unexpected result format")
	}

	profile := &model.UserProfile{
		ID:          convertSurrealID(data["id"]),
		DisplayName: getString(data, "display_name"),
		Email:       getString(data, "email"),
		PhotoURL:    getStringPtr(data, "photo_url"),
		Role:        model.Role(getString(data, "role")),
		Hash:        getStringPtr(data, "hash"),
	}

	// Unrecognized or missing role values degrade to the default role
	if !profile.Role.IsValid() {
		profile.Role = model.RoleEnthusiast
	}

	if t := getTime(data, "created_on"); t != nil {
		profile.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		profile.UpdatedOn = *t
	}

	return profile, nil
}

// ptrToNone converts a string pointer for queries that check $var IS NOT NULL
func ptrToNone(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
