package service

import (
	"context"
	"strings"

	"github.com/openheritage/api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	// Password constraints
	minPasswordLength = 8
	maxPasswordLength = 128
)

// UserRepository defines the interface for user profile storage
type UserRepository interface {
	Create(ctx context.Context, profile *model.UserProfile) error
	GetByID(ctx context.Context, id string) (*model.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	List(ctx context.Context, limit, offset int) ([]*model.UserProfile, error)
	SetRole(ctx context.Context, userID string, role model.Role) error
	UpdateProfile(ctx context.Context, profile *model.UserProfile) error
	UpdatePassword(ctx context.Context, userID, hash string) error
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo     UserRepository
	tokenService *TokenService
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo     UserRepository
	TokenService *TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:     cfg.UserRepo,
		tokenService: cfg.TokenService,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email       string
	Password    string
	DisplayName string
	PhotoURL    string
}

// RegisterResult represents a successful registration
type RegisterResult struct {
	Profile   *model.UserProfile
	TokenPair *TokenPair
}

// Register creates a new user profile with email/password. New accounts
// always start with the default role; roles are only ever raised through
// the admin panel.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, ErrDisplayNameMissing
	}

	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    stringPtr(strings.TrimSpace(req.PhotoURL)),
		Role:        model.RoleEnthusiast,
		Hash:        &hash,
	}

	if err := s.userRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(ctx, profile)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		Profile:   profile,
		TokenPair: tokenPair,
	}, nil
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult represents a successful login
type LoginResult struct {
	Profile   *model.UserProfile
	TokenPair *TokenPair
}

// Login authenticates a user with email/password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	profile, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}

	if profile.Hash == nil || *profile.Hash == "" {
		return nil, ErrInvalidCredentials
	}

	if !checkPassword(req.Password, *profile.Hash) {
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(ctx, profile)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Profile:   profile,
		TokenPair: tokenPair,
	}, nil
}

// GetProfile retrieves a user profile by ID
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}
	return profile, nil
}

// UpdateProfileRequest carries the editable profile fields. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string
	PhotoURL    *string
}

// UpdateProfile updates a user's display name and photo. Email and role are
// not editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.UserProfile, error) {
	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, ErrDisplayNameMissing
		}
		profile.DisplayName = name
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = stringPtr(strings.TrimSpace(*req.PhotoURL))
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RefreshTokens validates a refresh token and issues new tokens
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	storedToken, err := s.tokenService.tokenRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if storedToken == nil {
		return nil, ErrInvalidRefreshToken
	}

	profile, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}

	return s.tokenService.RefreshTokens(ctx, refreshToken, profile)
}

// Logout revokes the user's refresh tokens
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.tokenService.RevokeAllUserTokens(ctx, userID)
}

// ValidateAccessToken validates an access token and returns the claims
func (s *AuthService) ValidateAccessToken(token string) (*model.TokenClaims, error) {
	claims, err := s.tokenService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &model.TokenClaims{
		UserID:      claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}

// ChangePassword changes a user's password and revokes refresh tokens
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrUserNotFound
	}

	if profile.Hash != nil && *profile.Hash != "" {
		if !checkPassword(oldPassword, *profile.Hash) {
			return ErrInvalidCredentials
		}
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	return s.tokenService.RevokeAllUserTokens(ctx, userID)
}

// Helper functions

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	if len(email) > 254 {
		return false
	}
	atIndex := strings.Index(email, "@")
	if atIndex < 1 {
		return false
	}
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex < atIndex+2 {
		return false
	}
	if dotIndex >= len(email)-1 {
		return false
	}
	return true
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
