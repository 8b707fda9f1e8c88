package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openheritage/api/internal/config"
	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/handler"
	"github.com/openheritage/api/internal/jobs"
	"github.com/openheritage/api/internal/metrics"
	"github.com/openheritage/api/internal/middleware"
	"github.com/openheritage/api/internal/model"
	"github.com/openheritage/api/internal/repository"
	"github.com/openheritage/api/internal/service"
	"github.com/openheritage/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		Expiration: time.Duration(cfg.JWT.ExpirationMins) * time.Minute,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService:      jwtService,
		TokenRepo:       tokenRepo,
		RefreshDuration: time.Duration(cfg.JWT.RefreshDays) * 24 * time.Hour,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})

	roleService, err := service.NewRoleService(userRepo, cfg.Roles.CacheSize)
	if err != nil {
		slog.Error("failed to initialize role service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	hub := service.NewSnapshotHub(cfg.Stream.HeartbeatInterval)
	defer hub.Close()

	interactionService := service.NewInteractionService(service.InteractionServiceConfig{
		LikeRepo:      likeRepo,
		CommentRepo:   commentRepo,
		Hub:           hub,
		BoardPageSize: cfg.Stream.BoardPageSize,
	})

	catalogService := service.NewCatalogService(service.CatalogServiceConfig{
		EntityRepo:  entityRepo,
		Interaction: interactionService,
	})

	adminService := service.NewAdminService(userRepo, roleService)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	collector.RegisterStreamGauge(registry, hub.TotalSubscribers)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Initialize idempotency store
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Start background jobs
	liveFeed := jobs.NewLiveFeed(db, interactionService)
	if err := liveFeed.Start(ctx); err != nil {
		slog.Error("failed to start live feed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer liveFeed.Stop()

	tokenCleanup := jobs.NewTokenCleanup(tokenRepo, time.Hour)
	tokenCleanup.Start()
	defer tokenCleanup.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService, authService)
	interactionHandler := handler.NewInteractionHandler(interactionService, authService)
	streamHandler := handler.NewStreamHandler(hub, interactionService, collector)
	adminHandler := handler.NewAdminHandler(adminService)
	healthHandler := handler.NewHealthHandler(db)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health and metrics endpoints
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler(registry))

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /v1/auth/refresh", authHandler.Refresh)

	// Auth endpoints (protected)
	authRequired := middleware.Auth(authService)
	mux.Handle("POST /v1/auth/logout", authRequired(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /v1/auth/me", authRequired(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /v1/auth/me", authRequired(http.HandlerFunc(authHandler.UpdateMe)))
	mux.Handle("POST /v1/auth/password", authRequired(http.HandlerFunc(authHandler.ChangePassword)))

	// Catalog endpoints. Browsing requires a session (any role); creation is
	// gated per entry type and deletion is enforced in the service.
	catalogTypes := []struct {
		path       string
		entityType model.EntityType
	}{
		{"sites", model.EntitySite},
		{"traditions", model.EntityTradition},
		{"symbols", model.EntitySymbol},
		{"guides", model.EntityGuide},
	}
	for _, ct := range catalogTypes {
		createGate := middleware.RoleGate(roleService, model.AllowSetFor(ct.entityType))

		mux.Handle("GET /v1/"+ct.path, authRequired(catalogHandler.List(ct.entityType)))
		mux.Handle("GET /v1/"+ct.path+"/{id}", authRequired(catalogHandler.Get(ct.entityType)))
		mux.Handle("POST /v1/"+ct.path, authRequired(createGate(catalogHandler.Create(ct.entityType))))
		mux.Handle("DELETE /v1/"+ct.path+"/{id}", authRequired(catalogHandler.Delete(ct.entityType)))
	}

	// Interaction endpoints. Reads, streams, and writes all require a
	// session; write authorization is enforced in the service.
	mux.Handle("GET /v1/items/{itemType}/{itemId}/interactions", authRequired(http.HandlerFunc(interactionHandler.GetInteractions)))
	mux.Handle("GET /v1/items/{itemType}/{itemId}/stream", authRequired(http.HandlerFunc(streamHandler.StreamItem)))
	mux.Handle("POST /v1/items/{itemType}/{itemId}/likes", authRequired(http.HandlerFunc(interactionHandler.ToggleLike)))
	mux.Handle("POST /v1/items/{itemType}/{itemId}/comments", authRequired(http.HandlerFunc(interactionHandler.PostComment)))
	mux.Handle("DELETE /v1/items/{itemType}/comments/{commentId}", authRequired(http.HandlerFunc(interactionHandler.DeleteComment)))

	// Culture board endpoints
	mux.Handle("GET /v1/discussion", authRequired(http.HandlerFunc(interactionHandler.GetBoard)))
	mux.Handle("GET /v1/discussion/stream", authRequired(http.HandlerFunc(streamHandler.StreamBoard)))
	mux.Handle("POST /v1/discussion", authRequired(http.HandlerFunc(interactionHandler.PostBoardComment)))
	mux.Handle("DELETE /v1/discussion/{commentId}", authRequired(http.HandlerFunc(interactionHandler.DeleteBoardComment)))

	// Admin endpoints - requires admin role
	adminOnly := middleware.AdminOnly(roleService)
	mux.Handle("GET /v1/admin/users", authRequired(adminOnly(http.HandlerFunc(adminHandler.ListUsers))))
	mux.Handle("PATCH /v1/admin/users/{userId}/role", authRequired(adminOnly(http.HandlerFunc(adminHandler.SetRole))))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Metrics(collector),
		middleware.OptionalAuth(authService),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
