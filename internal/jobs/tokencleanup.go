package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openheritage/api/internal/service"
)

// TokenCleanup periodically removes expired refresh tokens from the store
type TokenCleanup struct {
	tokenRepo service.TokenRepository
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// NewTokenCleanup creates a new token cleanup job
func NewTokenCleanup(tokenRepo service.TokenRepository, interval time.Duration) *TokenCleanup {
	if interval == 0 {
		interval = time.Hour
	}
	return &TokenCleanup{
		tokenRepo: tokenRepo,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the cleanup job
func (j *TokenCleanup) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run()
	slog.Info("token cleanup started", "interval", j.interval)
}

// Stop gracefully stops the cleanup job
func (j *TokenCleanup) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	j.wg.Wait()
	slog.Info("token cleanup stopped")
}

func (j *TokenCleanup) run() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.cleanup()
		case <-j.stopCh:
			return
		}
	}
}

func (j *TokenCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.tokenRepo.DeleteExpiredTokens(ctx); err != nil {
		slog.Error("token cleanup failed", "error", err)
	}
}
