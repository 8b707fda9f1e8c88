package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/model"
)

// SnapshotPublisher re-reads an item's interactions and publishes the fresh
// snapshot to stream subscribers
type SnapshotPublisher interface {
	Republish(ctx context.Context, itemID string, itemType model.EntityType) error
}

// watchedCollections are the interaction collections whose changes must be
// fanned out to stream subscribers.
var watchedCollections = []string{"likes", "itemComments", "culturalComments"}

// LiveFeed watches the interaction collections through store live queries
// and republishes the affected item's full snapshot on every change. This is
// what keeps streams correct when a like or comment lands through another
// server instance: the hub only sees local writes, the live feed sees all of
// them.
type LiveFeed struct {
	db           database.Database
	interactions SnapshotPublisher

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	stops   []func()
	wg      sync.WaitGroup
}

// NewLiveFeed creates a new live feed processor
func NewLiveFeed(db database.Database, interactions SnapshotPublisher) *LiveFeed {
	return &LiveFeed{
		db:           db,
		interactions: interactions,
	}
}

// Start opens live queries on the interaction collections. Returns the
// first error if any watch cannot be opened; watches opened before the
// failure are torn down.
func (f *LiveFeed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	for _, collection := range watchedCollections {
		changes, stop, err := f.db.Watch(ctx, collection)
		if err != nil {
			cancel()
			for _, s := range f.stops {
				s()
			}
			f.stops = nil
			return err
		}
		f.stops = append(f.stops, stop)

		f.wg.Add(1)
		go f.consume(ctx, collection, changes)
	}

	f.running = true
	slog.Info("live feed started", "collections", watchedCollections)
	return nil
}

// Stop tears down the live queries and waits for the consumers to exit
func (f *LiveFeed) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	f.cancel()
	stops := f.stops
	f.stops = nil
	f.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	f.wg.Wait()
	slog.Info("live feed stopped")
}

func (f *LiveFeed) consume(ctx context.Context, collection string, changes <-chan database.Change) {
	defer f.wg.Done()

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return
			}
			f.republish(collection, change)
		case <-ctx.Done():
			return
		}
	}
}

// republish re-reads the affected item's interactions and publishes the
// fresh snapshot. Deletion notifications may omit the record; those are
// skipped because the owning delete path already republished.
func (f *LiveFeed) republish(collection string, change database.Change) {
	itemID, itemType := targetOf(collection, change.Record)
	if itemType == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := f.interactions.Republish(ctx, itemID, itemType); err != nil {
		slog.Error("live feed republish failed",
			"collection", collection,
			"item_id", itemID,
			"item_type", itemType,
			"error", err,
		)
	}
}

// targetOf resolves which item stream a change belongs to
func targetOf(collection string, record map[string]interface{}) (string, model.EntityType) {
	if collection == "culturalComments" {
		return "", model.CultureBoard
	}
	if record == nil {
		return "", ""
	}

	itemID, _ := record["item_id"].(string)
	rawType, _ := record["item_type"].(string)
	itemType := model.EntityType(rawType)
	if itemID == "" || !itemType.IsValid() {
		return "", ""
	}
	return itemID, itemType
}
