package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/openheritage/api/internal/model"
)

// EventType represents the type of event
type EventType string

const (
	// EventSnapshot carries the full interaction state of one item. Every
	// change publishes a complete replacement snapshot, never a diff.
	EventSnapshot EventType = "snapshot"

	// EventHeartbeat keeps idle connections alive
	EventHeartbeat EventType = "heartbeat"
)

// Event represents a server-sent event
type Event struct {
	Type  EventType   `json:"type"`
	Data  interface{} `json:"data"`
	Topic string      `json:"-"` // Used for routing, not sent to client
}

// Format returns the SSE formatted string
func (e *Event) Format() string {
	data, _ := json.Marshal(e.Data)
	return "event: " + string(e.Type) + "\ndata: " + string(data) + "\n\n"
}

// TopicFor returns the hub topic key for one item's interaction stream
func TopicFor(itemID string, itemType model.EntityType) string {
	return string(itemType) + "/" + itemID
}

// Subscriber represents a connected stream client
type Subscriber struct {
	ID     string
	Topic  string
	Events chan *Event
	Done   chan struct{}
}

// SnapshotHub fans interaction snapshots out to stream subscribers. One
// topic per item; each publish delivers the item's full current state so a
// subscriber never has to reconcile partial updates.
type SnapshotHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscriber // topic -> subscriberID -> subscriber
	latest      map[string]*model.InteractionSnapshot
	heartbeat   *time.Ticker
	done        chan struct{}
}

// NewSnapshotHub creates a new snapshot hub. A zero heartbeat interval
// falls back to 30 seconds.
func NewSnapshotHub(heartbeatInterval time.Duration) *SnapshotHub {
	if heartbeatInterval == 0 {
		heartbeatInterval = 30 * time.Second
	}

	hub := &SnapshotHub{
		subscribers: make(map[string]map[string]*Subscriber),
		latest:      make(map[string]*model.InteractionSnapshot),
		done:        make(chan struct{}),
	}
	hub.heartbeat = time.NewTicker(heartbeatInterval)
	go hub.sendHeartbeats()
	return hub
}

// Subscribe adds a new subscriber for a topic. If a snapshot for the topic
// was already published, it is queued immediately so the subscriber starts
// from current state rather than waiting for the next write.
func (h *SnapshotHub) Subscribe(topic, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:     subscriberID,
		Topic:  topic,
		Events: make(chan *Event, 100), // Buffer to prevent blocking
		Done:   make(chan struct{}),
	}

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[string]*Subscriber)
	}
	h.subscribers[topic][subscriberID] = sub

	if snapshot, ok := h.latest[topic]; ok {
		sub.Events <- &Event{Type: EventSnapshot, Topic: topic, Data: snapshot}
	}

	return sub
}

// Unsubscribe removes a subscriber
func (h *SnapshotHub) Unsubscribe(topic, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicSubs, ok := h.subscribers[topic]; ok {
		if sub, ok := topicSubs[subscriberID]; ok {
			close(sub.Done)
			close(sub.Events)
			delete(topicSubs, subscriberID)
		}
		if len(topicSubs) == 0 {
			delete(h.subscribers, topic)
		}
	}
}

// Publish replaces the topic's snapshot and delivers it to all subscribers.
// Delivery order per subscriber matches publish order.
func (h *SnapshotHub) Publish(snapshot *model.InteractionSnapshot) {
	topic := TopicFor(snapshot.ItemID, snapshot.ItemType)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest[topic] = snapshot

	topicSubs, ok := h.subscribers[topic]
	if !ok {
		return
	}

	event := &Event{Type: EventSnapshot, Topic: topic, Data: snapshot}
	for _, sub := range topicSubs {
		select {
		case sub.Events <- event:
			// Event sent successfully
		default:
			// Buffer full. Snapshots are full replacements, so evict the
			// oldest queued event to make room for the newest state.
			select {
			case <-sub.Events:
			default:
			}
			select {
			case sub.Events <- event:
			default:
			}
		}
	}
}

// Latest returns the most recently published snapshot for a topic
func (h *SnapshotHub) Latest(topic string) (*model.InteractionSnapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snapshot, ok := h.latest[topic]
	return snapshot, ok
}

// sendHeartbeats sends periodic heartbeats to all subscribers
func (h *SnapshotHub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.mu.RLock()
			for topic, topicSubs := range h.subscribers {
				event := &Event{
					Type:  EventHeartbeat,
					Topic: topic,
					Data: map[string]string{
						"timestamp": time.Now().UTC().Format(time.RFC3339),
					},
				}
				for _, sub := range topicSubs {
					select {
					case sub.Events <- event:
					default:
					}
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Close stops the hub and disconnects every subscriber
func (h *SnapshotHub) Close() {
	close(h.done)
	h.heartbeat.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for topic, topicSubs := range h.subscribers {
		for _, sub := range topicSubs {
			close(sub.Done)
			close(sub.Events)
		}
		delete(h.subscribers, topic)
	}
}

// SubscriberCount returns the number of subscribers for a topic
func (h *SnapshotHub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if topicSubs, ok := h.subscribers[topic]; ok {
		return len(topicSubs)
	}
	return 0
}

// TotalSubscribers returns the number of connected subscribers across all
// topics. Exposed for the metrics gauge.
func (h *SnapshotHub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, topicSubs := range h.subscribers {
		total += len(topicSubs)
	}
	return total
}
