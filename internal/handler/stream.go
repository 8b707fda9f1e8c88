package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openheritage/api/internal/metrics"
	"github.com/openheritage/api/internal/model"
	"github.com/openheritage/api/internal/service"
)

// StreamHandler streams interaction snapshots over SSE. Every event carries
// the item's complete current state; clients replace, never merge.
type StreamHandler struct {
	hub          *service.SnapshotHub
	interactions InteractionService
	collector    *metrics.Collector
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hub *service.SnapshotHub, interactions InteractionService, collector *metrics.Collector) *StreamHandler {
	return &StreamHandler{
		hub:          hub,
		interactions: interactions,
		collector:    collector,
	}
}

// StreamItem handles GET /v1/items/{itemType}/{itemId}/stream
func (h *StreamHandler) StreamItem(w http.ResponseWriter, r *http.Request) {
	itemType, pd := itemTypeFromPath(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	h.stream(w, r, r.PathValue("itemId"), itemType)
}

// StreamBoard handles GET /v1/discussion/stream
func (h *StreamHandler) StreamBoard(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, "", model.CultureBoard)
}

func (h *StreamHandler) stream(w http.ResponseWriter, r *http.Request, itemID string, itemType model.EntityType) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	// The server's write timeout would cut long-lived streams short
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	topic := service.TopicFor(itemID, itemType)
	subscriberID := uuid.NewString()

	sub := h.hub.Subscribe(topic, subscriberID)
	defer h.hub.Unsubscribe(topic, subscriberID)

	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	// Subscribe queues the latest published snapshot. On a topic nobody has
	// written to yet there is none, so prime the stream from the store.
	if _, ok := h.hub.Latest(topic); !ok {
		snapshot, err := h.interactions.GetSnapshot(r.Context(), itemID, itemType)
		if err == nil {
			initial := &service.Event{Type: service.EventSnapshot, Topic: topic, Data: snapshot}
			fmt.Fprint(w, initial.Format())
			flusher.Flush()
			h.record()
		}
	}

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			fmt.Fprint(w, event.Format())
			flusher.Flush()
			if event.Type == service.EventSnapshot {
				h.record()
			}

		case <-sub.Done:
			return

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

func (h *StreamHandler) record() {
	if h.collector != nil {
		h.collector.RecordSnapshot()
	}
}
