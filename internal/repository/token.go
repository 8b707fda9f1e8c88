package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/service"
)

// TokenRepository handles refresh token data access
type TokenRepository struct {
	db database.Database
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db database.Database) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateRefreshToken stores a new refresh token
func (r *TokenRepository) CreateRefreshToken(ctx context.Context, token *service.RefreshToken) error {
	query := `
		CREATE refreshTokens CONTENT {
			user: type::record($user),
			token_hash: $token_hash,
			expires_at: <datetime>$expires_at,
			created_on: time::now(),
			updated_on: time::now(),
			revoked: false
		}
	`

	vars := map[string]interface{}{
		"user":       token.UserID,
		"token_hash": token.TokenHash,
		"expires_at": token.ExpiresAt.Format(time.RFC3339),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	token.ID = created.ID
	token.CreatedAt = created.CreatedOn
	return nil
}

// GetRefreshTokenByHash retrieves a refresh token by its hash
func (r *TokenRepository) GetRefreshTokenByHash(ctx context.Context, hash string) (*service.RefreshToken, error) {
	query := `SELECT * FROM refreshTokens WHERE token_hash = $hash LIMIT 1`
	vars := map[string]interface{}{"hash": hash}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	row, ok := unwrapRow(result)
	if !ok {
		return nil, nil
	}
	return parseRefreshToken(row), nil
}

// RevokeRefreshToken marks a refresh token as revoked
func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, hash string) error {
	query := `UPDATE refreshTokens SET revoked = true, updated_on = time::now() WHERE token_hash = $hash`
	return r.db.Execute(ctx, query, map[string]interface{}{"hash": hash})
}

// RevokeAllUserTokens revokes every refresh token for a user
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID string) error {
	query := `UPDATE refreshTokens SET revoked = true, updated_on = time::now() WHERE user = type::record($user)`
	return r.db.Execute(ctx, query, map[string]interface{}{"user": userID})
}

// DeleteExpiredTokens removes refresh tokens past their expiry
func (r *TokenRepository) DeleteExpiredTokens(ctx context.Context) error {
	query := `DELETE refreshTokens WHERE expires_at < time::now()`
	return r.db.Execute(ctx, query, nil)
}

func parseRefreshToken(data map[string]interface{}) *service.RefreshToken {
	token := &service.RefreshToken{
		ID:        convertSurrealID(data["id"]),
		UserID:    convertSurrealID(data["user"]),
		TokenHash: getString(data, "token_hash"),
	}
	if v, ok := data["revoked"].(bool); ok {
		token.Revoked = v
	}
	if t := getTime(data, "expires_at"); t != nil {
		token.ExpiresAt = *t
	}
	if t := getTime(data, "created_on"); t != nil {
		token.CreatedAt = *t
	}
	return token
}
