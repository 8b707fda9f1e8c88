// Package config manages application configuration for the OpenHeritage API.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single source
// of truth.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: token signing and lifetime settings
//   - RateLimitConfig: per-client request budget
//   - StreamConfig: interaction stream heartbeat and board page size
//   - RolesConfig: role resolution cache sizing
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	DB_HOST, DB_PORT     - SurrealDB endpoint
//	DB_NAMESPACE, DB_DATABASE
//	DB_USER, DB_PASSWORD
//	JWT_SECRET           - HMAC signing secret, at least 32 bytes
//	JWT_EXPIRATION_MINS  - Access token lifetime (default: 15)
//	JWT_REFRESH_DAYS     - Refresh token lifetime (default: 30)
//	RATE_LIMIT           - Requests per window per client (default: 100)
//	ROLE_CACHE_SIZE      - Cached role resolutions (default: 4096)
package config
