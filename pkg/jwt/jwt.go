package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidKey   = errors.New("invalid key")
)

// Claims represents the token claims carried by an access token
type Claims struct {
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	gojwt.RegisteredClaims
}

// Service signs and validates access tokens
type Service struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

// Config holds configuration for the JWT service
type Config struct {
	Secret     []byte
	Issuer     string
	Expiration time.Duration // Default: 15 minutes
}

// NewService creates a new JWT service
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) < 32 {
		return nil, ErrInvalidKey
	}
	if cfg.Expiration == 0 {
		cfg.Expiration = 15 * time.Minute
	}

	return &Service{
		secret:     cfg.Secret,
		issuer:     cfg.Issuer,
		expiration: cfg.Expiration,
	}, nil
}

// Sign creates a signed token for the claims. Issuer, issued-at, and expiry
// are filled in by the service.
func (s *Service) Sign(claims Claims) (string, error) {
	now := time.Now()
	claims.Issuer = s.issuer
	claims.IssuedAt = gojwt.NewNumericDate(now)
	claims.ExpiresAt = gojwt.NewNumericDate(now.Add(s.expiration))
	if claims.Subject == "" {
		claims.Subject = claims.UserID
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and verifies a token, returning its claims
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, gojwt.WithIssuer(s.issuer), gojwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetExpiration returns the configured access token lifetime
func (s *Service) GetExpiration() time.Duration {
	return s.expiration
}
