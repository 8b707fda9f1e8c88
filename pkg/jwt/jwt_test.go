package jwt

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, expiration time.Duration) *Service {
	t.Helper()
	s, err := NewService(Config{
		Secret:     []byte(testSecret),
		Issuer:     "test",
		Expiration: expiration,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func TestNewService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewService(Config{Secret: []byte("short")})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestSignAndValidate(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Hour)

	token, err := s.Sign(Claims{
		UserID:      "userProfiles:alice",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "userProfiles:alice" {
		t.Errorf("expected user ID to round-trip, got %q", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email to round-trip, got %q", claims.Email)
	}
	if claims.Subject != "userProfiles:alice" {
		t.Errorf("expected subject defaulted to user ID, got %q", claims.Subject)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	t.Parallel()

	s := newTestService(t, -time.Minute)

	token, err := s.Sign(Claims{UserID: "userProfiles:alice"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	_, err = s.Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Hour)
	other, err := NewService(Config{
		Secret: []byte("ffffffffffffffffffffffffffffffff"),
		Issuer: "test",
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := s.Sign(Claims{UserID: "userProfiles:alice"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Hour)
	if _, err := s.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
