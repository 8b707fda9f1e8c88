package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openheritage/api/internal/model"
	"github.com/openheritage/api/internal/session"
)

// StreamState tracks the lifecycle of an ItemStream
type StreamState int

const (
	StreamIdle StreamState = iota
	StreamSubscribed
	StreamUpdating
	StreamClosed
)

// String returns a readable state name
func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamSubscribed:
		return "subscribed"
	case StreamUpdating:
		return "updating"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ItemStream is one consumer's live view of a single item's interactions.
// It moves Idle -> Subscribed on Open, briefly through Updating during its
// own writes, and terminally to Closed. All reads are derived from the
// latest full snapshot; the stream never applies partial updates.
type ItemStream struct {
	mu       sync.Mutex
	state    StreamState
	itemID   string
	itemType model.EntityType

	svc     *InteractionService
	hub     *SnapshotHub
	session *session.Session
	sub     *Subscriber

	// cb serializes callback delivery with Close: Close acquires it, so an
	// in-flight callback completes before Close returns and none starts
	// afterwards.
	cb sync.Mutex

	snapshot   *model.InteractionSnapshot
	onSnapshot func(*model.InteractionSnapshot)
}

// NewItemStream creates a stream for one item. Writes and the liked flag
// act on behalf of the session's current user. The stream is Idle until
// Open is called.
func NewItemStream(svc *InteractionService, hub *SnapshotHub, sess *session.Session, itemID string, itemType model.EntityType) *ItemStream {
	return &ItemStream{
		state:    StreamIdle,
		itemID:   itemID,
		itemType: itemType,
		svc:      svc,
		hub:      hub,
		session:  sess,
	}
}

// State returns the current lifecycle state
func (s *ItemStream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnSnapshot registers the callback invoked for every snapshot the stream
// receives. Must be set before Open. The callback is never invoked after
// Close returns.
func (s *ItemStream) OnSnapshot(fn func(*model.InteractionSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSnapshot = fn
}

// Open subscribes the stream and loads the item's current state. Only valid
// from Idle.
func (s *ItemStream) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StreamIdle {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.mu.Unlock()

	if !validItemType(s.itemType) {
		return ErrInvalidItemTarget
	}

	initial, err := s.svc.GetSnapshot(ctx, s.itemID, s.itemType)
	if err != nil {
		return err
	}

	topic := TopicFor(s.itemID, s.itemType)
	sub := s.hub.Subscribe(topic, uuid.NewString())

	s.mu.Lock()
	if s.state != StreamIdle {
		s.mu.Unlock()
		s.hub.Unsubscribe(topic, sub.ID)
		return ErrStreamClosed
	}
	s.sub = sub
	s.state = StreamSubscribed
	s.mu.Unlock()

	s.deliver(initial)

	go s.consume(sub)
	return nil
}

// consume applies incoming snapshots in arrival order
func (s *ItemStream) consume(sub *Subscriber) {
	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			if event == nil || event.Type != EventSnapshot {
				continue
			}
			snapshot, ok := event.Data.(*model.InteractionSnapshot)
			if !ok {
				continue
			}
			if !s.deliver(snapshot) {
				return
			}
		case <-sub.Done:
			return
		}
	}
}

// deliver stores the snapshot and invokes the callback, skipping both once
// the stream is closed. It runs under cb so Close can wait for it. Reports
// whether the stream is still open.
func (s *ItemStream) deliver(snapshot *model.InteractionSnapshot) bool {
	s.cb.Lock()
	defer s.cb.Unlock()

	s.mu.Lock()
	if s.state == StreamClosed {
		s.mu.Unlock()
		return false
	}
	// Each snapshot replaces the previous one entirely
	s.snapshot = snapshot
	fn := s.onSnapshot
	s.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
	return true
}

// Snapshot returns the latest snapshot the stream holds
func (s *ItemStream) Snapshot() (*model.InteractionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StreamClosed || s.state == StreamIdle {
		return nil, ErrStreamClosed
	}
	if s.snapshot == nil {
		return nil, ErrStreamNotReady
	}
	return s.snapshot, nil
}

// LikeCount returns the number of like rows in the latest snapshot
func (s *ItemStream) LikeCount() (int, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return 0, err
	}
	return snapshot.LikeCount(), nil
}

// IsLiked reports whether the latest snapshot holds a like row for the
// session's current user. Scans the rows on every call; a signed-out
// session is never liked.
func (s *ItemStream) IsLiked() (bool, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return false, err
	}

	user := s.session.Current()
	if user == nil {
		return false, nil
	}
	return snapshot.LikedBy(user.ID), nil
}

// Comments returns the comment rows of the latest snapshot
func (s *ItemStream) Comments() ([]*model.Comment, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Comments, nil
}

// ToggleLike flips the session user's like through the stream. Writes
// serialize: the stream sits in Updating until the write and its republish
// finish. Signed-out sessions get ErrMustLogIn, a user-facing refusal.
func (s *ItemStream) ToggleLike(ctx context.Context) (bool, error) {
	user := s.session.Current()
	if user == nil {
		return false, ErrMustLogIn
	}

	if err := s.beginUpdate(); err != nil {
		return false, err
	}
	defer s.endUpdate()

	_, liked, err := s.svc.ToggleLike(ctx, s.itemID, s.itemType, user)
	return liked, err
}

// PostComment posts a comment through the stream as the session user
func (s *ItemStream) PostComment(ctx context.Context, text string) (*model.Comment, error) {
	user := s.session.Current()
	if user == nil {
		return nil, ErrMustLogIn
	}

	if err := s.beginUpdate(); err != nil {
		return nil, err
	}
	defer s.endUpdate()

	return s.svc.PostComment(ctx, s.itemID, s.itemType, user, text)
}

// DeleteComment deletes a comment through the stream as the session user
func (s *ItemStream) DeleteComment(ctx context.Context, commentID string) error {
	user := s.session.Current()
	if user == nil {
		return ErrMustLogIn
	}

	if err := s.beginUpdate(); err != nil {
		return err
	}
	defer s.endUpdate()

	return s.svc.DeleteComment(ctx, s.itemType, commentID, user)
}

func (s *ItemStream) beginUpdate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StreamSubscribed {
		if s.state == StreamUpdating {
			return ErrStreamNotReady
		}
		return ErrStreamClosed
	}
	s.state = StreamUpdating
	return nil
}

func (s *ItemStream) endUpdate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StreamUpdating {
		s.state = StreamSubscribed
	}
}

// Close unsubscribes the stream. Idempotent; after Close returns no
// callback fires and all reads fail with ErrStreamClosed.
func (s *ItemStream) Close() {
	// Taking cb first waits out a callback already in flight; marking the
	// stream closed under mu stops any later delivery before it invokes.
	s.cb.Lock()
	defer s.cb.Unlock()

	s.mu.Lock()
	if s.state == StreamClosed {
		s.mu.Unlock()
		return
	}
	s.state = StreamClosed
	sub := s.sub
	s.sub = nil
	s.onSnapshot = nil
	s.mu.Unlock()

	if sub != nil {
		s.hub.Unsubscribe(TopicFor(s.itemID, s.itemType), sub.ID)
	}
}
