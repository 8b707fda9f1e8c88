package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openheritage/api/pkg/jwt"
)

// Mints a development access token for an existing user. The token only
// proves identity; the role gate still resolves the user's role from their
// profile document, so point -user at a profile that actually holds the
// role you need.
func main() {
	// Flags for customization
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "JWT signing secret (defaults to JWT_SECRET)")
	userID := flag.String("user", "userProfiles:admin-dev", "User ID for the token")
	email := flag.String("email", "admin@openheritage.in", "Email for the token")
	issuer := flag.String("issuer", "api.openheritage.in", "JWT issuer")
	expMins := flag.Int("exp", 60*24*7, "Token expiration in minutes (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	jwtService, err := jwt.NewService(jwt.Config{
		Secret:     []byte(*secret),
		Issuer:     *issuer,
		Expiration: time.Duration(*expMins) * time.Minute,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nSet JWT_SECRET (at least 32 bytes) or pass -secret\n")
		os.Exit(1)
	}

	token, err := jwtService.Sign(jwt.Claims{
		UserID:      *userID,
		Email:       *email,
		DisplayName: "Admin",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"user_id":      *userID,
			"email":        *email,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
		fmt.Println("Access Token Generated")
		fmt.Println("======================")
		fmt.Printf("User ID:  %s\n", *userID)
		fmt.Printf("Email:    %s\n", *email)
		fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/admin/users\n", token[:50]+"...")
	}
}
