// Package jwt provides JSON Web Token utilities for the OpenHeritage API.
//
// The jwt package wraps github.com/golang-jwt/jwt/v5 with the claim set and
// HS256 configuration used across the API.
//
// # Token Generation
//
// Generate tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    Secret:     []byte("at-least-32-bytes-of-secret......"),
//	    Issuer:     "openheritage-api",
//	    Expiration: 15 * time.Minute,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: profileID, Email: email})
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// Refresh tokens are opaque and handled by the service layer; this package
// only deals with signed access tokens.
package jwt
