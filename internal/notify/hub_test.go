package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cems-client/internal/model"
)

// fakeTransport captures the push callback so tests can inject events.
type fakeTransport struct {
	mu      sync.Mutex
	starts  int
	stops   int
	onEvent func(model.Notification)
}

func (f *fakeTransport) Start(_ int, onEvent func(model.Notification)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.onEvent = onEvent
}

func (f *fakeTransport) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeTransport) push(n model.Notification) {
	f.mu.Lock()
	fn := f.onEvent
	f.mu.Unlock()
	if fn != nil {
		fn(n)
	}
}

func (f *fakeTransport) counts() (starts, stops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops
}

// hubHarness bundles a hub with its fakes.
type hubHarness struct {
	hub        *Hub
	api        *fakeAPI
	transport  *fakeTransport
	built      int
	onDegraded func(bool)
	mu         sync.Mutex
}

func newHubHarness(records ...model.Notification) *hubHarness {
	h := &hubHarness{
		api:       &fakeAPI{records: records},
		transport: &fakeTransport{},
	}
	factory := func(userID int, onDegraded func(bool)) Transport {
		h.mu.Lock()
		h.built++
		h.onDegraded = onDegraded
		h.mu.Unlock()
		return h.transport
	}
	h.hub = NewHub(h.api, factory, nil, nil)
	return h
}

func (h *hubHarness) transportsBuilt() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.built
}

func (h *hubHarness) degrade(v bool) {
	h.mu.Lock()
	fn := h.onDegraded
	h.mu.Unlock()
	fn(v)
}

// waitSnap drains the subscription channel until cond holds.
func waitSnap(t *testing.T, sub *Subscription, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				t.Fatal("subscription channel closed while waiting")
			}
			if cond(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func loaded(n int) func(Snapshot) bool {
	return func(s Snapshot) bool {
		return !s.Loading && len(s.Notifications) == n
	}
}

func TestHubSharesOneSessionPerUser(t *testing.T) {
	h := newHubHarness(record(1, false))

	sub1 := h.hub.Subscribe(7)
	sub2 := h.hub.Subscribe(7)

	assert.Equal(t, 1, h.transportsBuilt(), "second subscriber reuses the session")

	waitSnap(t, sub1, loaded(1))
	waitSnap(t, sub2, loaded(1))

	sub1.Close()
	starts, stops := h.transport.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 0, stops, "stream survives while a subscriber remains")

	sub2.Close()
	_, stops = h.transport.counts()
	assert.Equal(t, 1, stops, "last subscriber out stops the stream")

	// A fresh subscriber gets a fresh session.
	sub3 := h.hub.Subscribe(7)
	assert.Equal(t, 2, h.transportsBuilt())
	sub3.Close()
}

func TestHubPushDedupAgainstLoad(t *testing.T) {
	h := newHubHarness(record(1, false), record(2, false))

	sub := h.hub.Subscribe(7)
	waitSnap(t, sub, loaded(2))

	// A push for a record already fetched must not duplicate it.
	h.transport.push(record(2, false))
	snap := sub.Snapshot()
	require.Len(t, snap.Notifications, 2)

	// A genuinely new record lands at the top.
	h.transport.push(record(3, false))
	snap = waitSnap(t, sub, loaded(3))
	assert.Equal(t, 3, snap.Notifications[0].ID)
	assert.Equal(t, 3, snap.Unread)

	sub.Close()
}

func TestHubMutationsThroughSubscription(t *testing.T) {
	h := newHubHarness(record(1, false), record(2, false))

	sub := h.hub.Subscribe(7)
	waitSnap(t, sub, loaded(2))

	require.True(t, sub.MarkAsRead(2))
	snap := waitSnap(t, sub, func(s Snapshot) bool { return s.Unread == 1 })
	for _, n := range snap.Notifications {
		if n.ID == 2 {
			assert.True(t, n.IsRead)
		}
	}

	require.True(t, sub.MarkAllAsRead())
	waitSnap(t, sub, func(s Snapshot) bool { return s.Unread == 0 })

	sub.Close()
}

func TestHubClosedSubscriptionIsInert(t *testing.T) {
	h := newHubHarness(record(1, false))

	sub := h.hub.Subscribe(7)
	waitSnap(t, sub, loaded(1))
	sub.Close()

	// The channel closes with the subscription, after any buffered
	// snapshots drain.
	closed := false
	for i := 0; i < 16 && !closed; i++ {
		_, ok := <-sub.C
		closed = !ok
	}
	assert.True(t, closed)

	// Mutations through a dead subscription report failure and reach
	// nothing.
	assert.False(t, sub.MarkAsRead(1))
	assert.False(t, sub.MarkAllAsRead())
	assert.Equal(t, Snapshot{}, sub.Snapshot())

	// A late push event after teardown must not panic.
	h.transport.push(record(9, false))
}

func TestHubDegradedFlag(t *testing.T) {
	h := newHubHarness(record(1, false))

	sub := h.hub.Subscribe(7)
	waitSnap(t, sub, loaded(1))

	h.degrade(true)
	snap := waitSnap(t, sub, func(s Snapshot) bool { return s.Degraded })
	assert.Len(t, snap.Notifications, 1, "records survive a degraded stream")

	h.degrade(false)
	waitSnap(t, sub, func(s Snapshot) bool { return !s.Degraded })

	sub.Close()
}

func TestHubSlowSubscriberGetsNewestSnapshot(t *testing.T) {
	h := newHubHarness(record(1, false))

	sub := h.hub.Subscribe(7)
	waitSnap(t, sub, loaded(1))

	// Push far more events than the channel buffers without reading.
	for i := 2; i <= 51; i++ {
		h.transport.push(record(i, false))
	}

	snap := waitSnap(t, sub, func(s Snapshot) bool {
		return len(s.Notifications) == 51
	})
	assert.Equal(t, 51, snap.Notifications[0].ID, "latest state wins")

	sub.Close()
}

func TestHubSubscribeDeliversSnapshotsInStateOrder(t *testing.T) {
	h := newHubHarness(record(1, false))

	sub1 := h.hub.Subscribe(7)
	waitSnap(t, sub1, loaded(1))

	// A late subscriber's first snapshot is queued before any
	// broadcast that follows the subscription, so the record counts it
	// observes never go backwards.
	sub2 := h.hub.Subscribe(7)
	for i := 2; i <= 6; i++ {
		h.transport.push(record(i, false))
	}

	seen := 0
	waitSnap(t, sub2, func(s Snapshot) bool {
		require.GreaterOrEqual(t, len(s.Notifications), seen,
			"snapshot went backwards")
		seen = len(s.Notifications)
		return len(s.Notifications) == 6
	})

	sub1.Close()
	sub2.Close()
}

func TestHubRefresh(t *testing.T) {
	h := newHubHarness(record(1, false))

	sub := h.hub.Subscribe(7)
	waitSnap(t, sub, loaded(1))

	h.api.mu.Lock()
	h.api.records = []model.Notification{record(1, false), record(2, false)}
	h.api.mu.Unlock()

	sub.Refresh()
	waitSnap(t, sub, loaded(2))

	sub.Close()
}
