package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/testutil"
)

func newTestHub() *Hub {
	return NewHub(testutil.NopLogger())
}

func receiveEvent(t *testing.T, sub *Subscription) model.ChangeEvent {
	t.Helper()
	select {
	case ev := <-sub.C:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return model.ChangeEvent{}
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	hub.Publish(model.TablePlayers)

	ev := receiveEvent(t, sub)
	assert.Equal(t, model.TablePlayers, ev.Table)
	assert.False(t, ev.At.IsZero())
}

func TestSubscribeFiltersByTable(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	sub := hub.Subscribe(model.TableRequests)
	defer hub.Unsubscribe(sub)

	hub.Publish(model.TablePlayers)
	hub.Publish(model.TableRequests)

	ev := receiveEvent(t, sub)
	assert.Equal(t, model.TableRequests, ev.Table)

	select {
	case ev := <-sub.C:
		t.Fatalf("unexpected extra event for table %s", ev.Table)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAllTables(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	hub.Publish(model.TablePlayers)
	hub.Publish(model.TableRequests)

	first := receiveEvent(t, sub)
	second := receiveEvent(t, sub)
	assert.Equal(t, model.TablePlayers, first.Table)
	assert.Equal(t, model.TableRequests, second.Table)
}

func TestFanOut(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	a := hub.Subscribe()
	b := hub.Subscribe()
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)

	hub.Publish(model.TablePlayers)

	assert.Equal(t, model.TablePlayers, receiveEvent(t, a).Table)
	assert.Equal(t, model.TablePlayers, receiveEvent(t, b).Table)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount())

	// Double unsubscribe is harmless
	hub.Unsubscribe(sub)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	// Fill the buffer and keep publishing; Publish must never block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriptionBuffer*3; i++ {
			hub.Publish(model.TablePlayers)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// The buffered cues are still there
	require.Equal(t, subscriptionBuffer, len(sub.C))
}

func TestCloseStopsDelivery(t *testing.T) {
	hub := newTestHub()

	sub := hub.Subscribe()
	hub.Close()

	_, open := <-sub.C
	assert.False(t, open)

	// Publishing and re-closing after Close are no-ops
	hub.Publish(model.TablePlayers)
	hub.Close()

	late := hub.Subscribe()
	_, open = <-late.C
	assert.False(t, open)
}
