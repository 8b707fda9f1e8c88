package service

import (
	"testing"

	"github.com/openheritage/api/internal/model"
)

func snapshotFor(itemID string, itemType model.EntityType, likes int) *model.InteractionSnapshot {
	s := &model.InteractionSnapshot{ItemID: itemID, ItemType: itemType}
	for i := 0; i < likes; i++ {
		s.Likes = append(s.Likes, &model.Like{ItemID: itemID, ItemType: itemType})
	}
	return s
}

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewSnapshotHub(0)
	defer hub.Close()

	topic := TopicFor("sites:fort", model.EntitySite)
	sub := hub.Subscribe(topic, "sub-1")
	other := hub.Subscribe(TopicFor("sites:palace", model.EntitySite), "sub-2")

	hub.Publish(snapshotFor("sites:fort", model.EntitySite, 2))

	got := receiveSnapshot(t, sub)
	if got.LikeCount() != 2 {
		t.Errorf("expected snapshot with 2 likes, got %d", got.LikeCount())
	}

	select {
	case event := <-other.Events:
		t.Errorf("unrelated topic received event %+v", event)
	default:
	}
}

func TestHub_NewSubscriberGetsLatestSnapshot(t *testing.T) {
	t.Parallel()

	hub := NewSnapshotHub(0)
	defer hub.Close()

	hub.Publish(snapshotFor("sites:fort", model.EntitySite, 1))
	hub.Publish(snapshotFor("sites:fort", model.EntitySite, 3))

	sub := hub.Subscribe(TopicFor("sites:fort", model.EntitySite), "late")
	got := receiveSnapshot(t, sub)
	if got.LikeCount() != 3 {
		t.Errorf("expected the latest snapshot on subscribe, got %d likes", got.LikeCount())
	}
}

func TestHub_SnapshotsReplaceInOrder(t *testing.T) {
	t.Parallel()

	hub := NewSnapshotHub(0)
	defer hub.Close()

	sub := hub.Subscribe(TopicFor("sites:fort", model.EntitySite), "sub-1")

	for i := 1; i <= 4; i++ {
		hub.Publish(snapshotFor("sites:fort", model.EntitySite, i))
	}

	for i := 1; i <= 4; i++ {
		got := receiveSnapshot(t, sub)
		if got.LikeCount() != i {
			t.Fatalf("expected snapshot %d in publish order, got %d likes", i, got.LikeCount())
		}
	}
}

func TestHub_SlowSubscriberKeepsNewestSnapshot(t *testing.T) {
	t.Parallel()

	hub := NewSnapshotHub(0)
	defer hub.Close()

	sub := hub.Subscribe(TopicFor("sites:fort", model.EntitySite), "slow")

	// Overrun the buffer without draining it
	for i := 1; i <= 150; i++ {
		hub.Publish(snapshotFor("sites:fort", model.EntitySite, i))
	}

	// The oldest snapshots give way; the last published one must land
	last := 0
	for {
		select {
		case event := <-sub.Events:
			if s, ok := event.Data.(*model.InteractionSnapshot); ok {
				last = s.LikeCount()
			}
			continue
		default:
		}
		break
	}
	if last != 150 {
		t.Errorf("expected the newest snapshot to survive a full buffer, got %d likes", last)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	t.Parallel()

	hub := NewSnapshotHub(0)
	defer hub.Close()

	topic := TopicFor("sites:fort", model.EntitySite)
	sub := hub.Subscribe(topic, "sub-1")
	if hub.SubscriberCount(topic) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount(topic))
	}

	hub.Unsubscribe(topic, sub.ID)
	if hub.SubscriberCount(topic) != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.SubscriberCount(topic))
	}

	select {
	case <-sub.Done:
	default:
		t.Error("expected Done closed on unsubscribe")
	}

	// Publishing after unsubscribe must not panic
	hub.Publish(snapshotFor("sites:fort", model.EntitySite, 1))
}

func TestHub_TotalSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewSnapshotHub(0)
	defer hub.Close()

	hub.Subscribe(TopicFor("sites:fort", model.EntitySite), "a")
	hub.Subscribe(TopicFor("sites:fort", model.EntitySite), "b")
	hub.Subscribe(TopicFor("traditions:dance", model.EntityTradition), "c")

	if total := hub.TotalSubscribers(); total != 3 {
		t.Errorf("expected 3 subscribers, got %d", total)
	}
}
