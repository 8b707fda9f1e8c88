package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openheritage/api/internal/middleware"
	"github.com/openheritage/api/internal/model"
	"github.com/openheritage/api/internal/service"
)

// ============================================================================
// Mock AuthService
// ============================================================================

type mockAuthService struct {
	registerFunc       func(ctx context.Context, req service.RegisterRequest) (*service.RegisterResult, error)
	loginFunc          func(ctx context.Context, req service.LoginRequest) (*service.LoginResult, error)
	refreshTokensFunc  func(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	logoutFunc         func(ctx context.Context, userID string) error
	getProfileFunc     func(ctx context.Context, userID string) (*model.UserProfile, error)
	updateProfileFunc  func(ctx context.Context, userID string, req service.UpdateProfileRequest) (*model.UserProfile, error)
	changePasswordFunc func(ctx context.Context, userID, oldPassword, newPassword string) error
}

func (m *mockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*service.RegisterResult, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	if m.refreshTokensFunc != nil {
		return m.refreshTokensFunc(ctx, refreshToken)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, userID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, userID)
	}
	return nil
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, userID)
	}
	return nil, service.ErrUserNotFound
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID string, req service.UpdateProfileRequest) (*model.UserProfile, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestProfile() *model.UserProfile {
	now := time.Now()
	return &model.UserProfile{
		ID:          "userProfiles:123",
		DisplayName: "Asha",
		Email:       "asha@example.com",
		Role:        model.RoleEnthusiast,
		CreatedOn:   now,
		UpdatedOn:   now,
	}
}

func newTestTokenPair() *service.TokenPair {
	return &service.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	}
}

func makeJSONRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUserContext(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func parseErrorResponse(t *testing.T, body []byte) *model.ProblemDetails {
	t.Helper()
	var problem model.ProblemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	return &problem
}

// ============================================================================
// Register / Login
// ============================================================================

func TestRegister_ValidInput_ReturnsCreated(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*service.RegisterResult, error) {
			return &service.RegisterResult{
				Profile:   newTestProfile(),
				TokenPair: newTestTokenPair(),
			}, nil
		},
	})

	req := makeJSONRequest(http.MethodPost, "/v1/auth/register", RegisterRequest{
		Email:       "asha@example.com",
		Password:    "securepassword123",
		DisplayName: "Asha",
	})
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}

	var resp DataResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("expected data to be a map")
	}
	user, ok := data["user"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'user' in response")
	}
	if user["role"] != "enthusiast" {
		t.Errorf("expected enthusiast role, got %v", user["role"])
	}
	if _, ok := data["token"]; !ok {
		t.Error("expected 'token' in response")
	}
}

func TestRegister_DuplicateEmail_ReturnsConflict(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*service.RegisterResult, error) {
			return nil, service.ErrEmailAlreadyExists
		},
	})

	req := makeJSONRequest(http.MethodPost, "/v1/auth/register", RegisterRequest{
		Email:       "asha@example.com",
		Password:    "securepassword123",
		DisplayName: "Asha",
	})
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
	problem := parseErrorResponse(t, rr.Body.Bytes())
	if problem.Title != "Conflict" {
		t.Errorf("unexpected problem title %q", problem.Title)
	}
}

func TestRegister_InvalidBody_ReturnsBadRequest(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestLogin_WrongPassword_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{
		loginFunc: func(ctx context.Context, req service.LoginRequest) (*service.LoginResult, error) {
			return nil, service.ErrInvalidCredentials
		},
	})

	req := makeJSONRequest(http.MethodPost, "/v1/auth/login", LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

// ============================================================================
// Refresh / Logout
// ============================================================================

func TestRefresh_MissingToken_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{})
	req := makeJSONRequest(http.MethodPost, "/v1/auth/refresh", RefreshRequest{})
	rr := httptest.NewRecorder()
	handler.Refresh(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rr.Code)
	}
}

func TestRefresh_RevokedToken_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{
		refreshTokensFunc: func(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
			return nil, service.ErrRefreshTokenRevoked
		},
	})

	req := makeJSONRequest(http.MethodPost, "/v1/auth/refresh", RefreshRequest{RefreshToken: "stale"})
	rr := httptest.NewRecorder()
	handler.Refresh(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestLogout_WithoutUser_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{})
	req := makeJSONRequest(http.MethodPost, "/v1/auth/logout", nil)
	rr := httptest.NewRecorder()
	handler.Logout(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

// ============================================================================
// Me / UpdateMe / ChangePassword
// ============================================================================

func TestMe_ReturnsProfile(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{
		getProfileFunc: func(ctx context.Context, userID string) (*model.UserProfile, error) {
			if userID != "userProfiles:123" {
				t.Errorf("unexpected user ID %q", userID)
			}
			return newTestProfile(), nil
		},
	})

	req := withUserContext(makeJSONRequest(http.MethodGet, "/v1/auth/me", nil), "userProfiles:123")
	rr := httptest.NewRecorder()
	handler.Me(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp DataResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data := resp.Data.(map[string]interface{})
	if data["email"] != "asha@example.com" {
		t.Errorf("unexpected email %v", data["email"])
	}
}

func TestUpdateMe_BlankName_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{
		updateProfileFunc: func(ctx context.Context, userID string, req service.UpdateProfileRequest) (*model.UserProfile, error) {
			return nil, service.ErrDisplayNameMissing
		},
	})

	blank := "   "
	req := withUserContext(makeJSONRequest(http.MethodPatch, "/v1/auth/me", UpdateProfileRequest{
		DisplayName: &blank,
	}), "userProfiles:123")
	rr := httptest.NewRecorder()
	handler.UpdateMe(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rr.Code)
	}
}

func TestChangePassword_WrongOldPassword_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&mockAuthService{
		changePasswordFunc: func(ctx context.Context, userID, oldPassword, newPassword string) error {
			return service.ErrInvalidCredentials
		},
	})

	req := withUserContext(makeJSONRequest(http.MethodPost, "/v1/auth/password", ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newsecurepassword",
	}), "userProfiles:123")
	rr := httptest.NewRecorder()
	handler.ChangePassword(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}
