package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openheritage/api/internal/model"
	"github.com/openheritage/api/pkg/jwt"
)

// Mock implementations

type mockUserRepo struct {
	mu         sync.Mutex
	users      map[string]*model.UserProfile
	emailIndex map[string]*model.UserProfile
	getCalls   int
	getErr     error
	createErr  error

	// When set, GetByID blocks until the channel closes. Used to hold a
	// lookup in flight.
	getGate chan struct{}
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:      make(map[string]*model.UserProfile),
		emailIndex: make(map[string]*model.UserProfile),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, profile *model.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	profile.ID = "userProfiles:" + profile.Email
	profile.CreatedOn = time.Now()
	profile.UpdatedOn = time.Now()
	m.users[profile.ID] = profile
	m.emailIndex[profile.Email] = profile
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.UserProfile, error) {
	m.mu.Lock()
	m.getCalls++
	gate := m.getGate
	err := m.getErr
	profile := m.users[id]
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.emailIndex[email], nil
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*model.UserProfile, 0, len(m.users))
	for _, p := range m.users {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockUserRepo) SetRole(ctx context.Context, userID string, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.users[userID]; ok {
		profile.Role = role
	}
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, profile *model.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[profile.ID] = profile
	m.emailIndex[profile.Email] = profile
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.users[userID]; ok {
		profile.Hash = &hash
	}
	return nil
}

func (m *mockUserRepo) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

type mockTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (m *mockTokenRepo) CreateRefreshToken(ctx context.Context, token *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = "refreshTokens:" + token.TokenHash[:8]
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockTokenRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[hash], nil
}

func (m *mockTokenRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token, ok := m.tokens[hash]; ok {
		token.Revoked = true
	}
	return nil
}

func (m *mockTokenRepo) RevokeAllUserTokens(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, token := range m.tokens {
		if time.Now().After(token.ExpiresAt) {
			delete(m.tokens, hash)
		}
	}
	return nil
}

// Test setup helpers

func newTestTokenService(t *testing.T) (*TokenService, *mockTokenRepo) {
	t.Helper()
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "test",
		Expiration: time.Hour,
	})
	if err != nil {
		t.Fatalf("jwt.NewService: %v", err)
	}
	tokenRepo := newMockTokenRepo()
	return NewTokenService(TokenServiceConfig{
		JWTService: jwtService,
		TokenRepo:  tokenRepo,
	}), tokenRepo
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	userRepo := newMockUserRepo()
	tokenService, _ := newTestTokenService(t)
	return NewAuthService(AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	}), userRepo
}

// Tests

func TestRegister_NewAccountIsEnthusiast(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "Alice@Example.com",
		Password:    "password123",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if result.Profile.Role != model.RoleEnthusiast {
		t.Errorf("expected new accounts to default to enthusiast, got %q", result.Profile.Role)
	}
	if result.Profile.Email != "alice@example.com" {
		t.Errorf("expected email normalized, got %q", result.Profile.Email)
	}
	if result.TokenPair == nil || result.TokenPair.AccessToken == "" {
		t.Error("expected a token pair")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "alice@example.com", Password: "password123", DisplayName: "Alice"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"bad email", RegisterRequest{Email: "nope", Password: "password123", DisplayName: "A"}, ErrInvalidEmail},
		{"short password", RegisterRequest{Email: "a@b.com", Password: "short", DisplayName: "A"}, ErrPasswordTooShort},
		{"no password", RegisterRequest{Email: "a@b.com", DisplayName: "A"}, ErrPasswordRequired},
		{"no display name", RegisterRequest{Email: "a@b.com", Password: "password123", DisplayName: "  "}, ErrDisplayNameMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email: "alice@example.com", Password: "password123", DisplayName: "Alice",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	result, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Profile.DisplayName != "Alice" {
		t.Errorf("unexpected profile %+v", result.Profile)
	}

	if _, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{
		Email: "alice@example.com", Password: "password123", DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := svc.ValidateAccessToken(result.TokenPair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != result.Profile.ID {
		t.Errorf("expected user ID %q, got %q", result.Profile.ID, claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("unexpected email claim %q", claims.Email)
	}
}

func TestLogout_RevokesRefreshTokens(t *testing.T) {
	t.Parallel()

	userRepo := newMockUserRepo()
	tokenService, tokenRepo := newTestTokenService(t)
	svc := NewAuthService(AuthServiceConfig{UserRepo: userRepo, TokenService: tokenService})
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{
		Email: "alice@example.com", Password: "password123", DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Logout(ctx, result.Profile.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := svc.RefreshTokens(ctx, result.TokenPair.RefreshToken); !errors.Is(err, ErrRefreshTokenRevoked) {
		t.Errorf("expected ErrRefreshTokenRevoked after logout, got %v", err)
	}
	_ = tokenRepo
}
