package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cems-client/internal/model"
)

// Transport is the live push channel feeding the store. The concrete
// implementation is internal/stream; tests use fakes.
type Transport interface {
	Start(userID int, onEvent func(model.Notification))
	Stop()
}

// TransportFactory builds a transport for one user. onDegraded is
// invoked with true after sustained connection trouble and false once
// the stream recovers.
type TransportFactory func(userID int, onDegraded func(bool)) Transport

// Cache is the optional offline snapshot. All methods must tolerate
// concurrent use.
type Cache interface {
	UpsertNotifications(ctx context.Context, records []model.Notification) error
	Notifications(ctx context.Context, userID, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int) error
	MarkAllNotificationsRead(ctx context.Context, userID int) error
}

// cacheTimeout bounds local persistence work; the cache is best-effort.
const cacheTimeout = 5 * time.Second

// Hub maintains one logical notification session per user, shared by
// every subscribing view. The first subscriber triggers the initial
// load and opens the push stream; the last one to leave closes it.
// Subscribers receive read-only snapshots over a channel and issue
// mutations through their Subscription, so two surfaces rendered at
// the same time can never diverge or open duplicate streams.
type Hub struct {
	api          API
	newTransport TransportFactory
	cache        Cache
	logger       *zap.Logger

	mu       sync.Mutex
	sessions map[int]*userSession
}

// userSession is the per-user store/transport pair plus its
// subscribers.
type userSession struct {
	store     *Store
	transport Transport
	ctx       context.Context
	cancel    context.CancelFunc
	subs      map[string]chan Snapshot
	refs      int
	degraded  bool
}

// Subscription is one view's handle on a user session. C delivers a
// snapshot after every state change; slow consumers miss intermediate
// snapshots, never the latest one pending.
type Subscription struct {
	id     string
	userID int
	hub    *Hub

	C <-chan Snapshot
}

// NewHub creates a hub. cache may be nil to disable offline snapshots.
func NewHub(api API, factory TransportFactory, cache Cache, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		api:          api,
		newTransport: factory,
		cache:        cache,
		logger:       logger,
		sessions:     make(map[int]*userSession),
	}
}

// Subscribe attaches a view to the user's notification session,
// creating the session on first use. The returned subscription's
// channel immediately carries the current snapshot.
func (h *Hub) Subscribe(userID int) *Subscription {
	h.mu.Lock()
	sess, ok := h.sessions[userID]
	if !ok {
		sess = h.startSessionLocked(userID)
		h.sessions[userID] = sess
	}
	sess.refs++

	id := uuid.NewString()
	ch := make(chan Snapshot, 8)
	sess.subs[id] = ch

	// Deliver the subscribe-time snapshot before releasing the lock so
	// no broadcast can slip in ahead of it; channel order always
	// matches state order. The fresh buffered channel cannot block.
	ch <- h.snapshotLocked(sess)
	h.mu.Unlock()

	return &Subscription{id: id, userID: userID, hub: h, C: ch}
}

// startSessionLocked builds the store/transport pair and kicks off the
// initial cache seed, network load, and stream. Caller holds h.mu.
func (h *Hub) startSessionLocked(userID int) *userSession {
	ctx, cancel := context.WithCancel(context.Background())

	store := NewStore(h.api, userID, h.logger)
	sess := &userSession{
		store:  store,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[string]chan Snapshot),
	}

	store.SetOnChange(func() {
		h.broadcast(userID)
	})

	sess.transport = h.newTransport(userID, func(degraded bool) {
		h.setDegraded(userID, degraded)
	})

	go func() {
		h.seedFromCache(ctx, store)
		if store.Load(ctx) == nil {
			h.persistSnapshot(store)
		}
	}()
	sess.transport.Start(userID, func(n model.Notification) {
		store.Apply(n)
		h.persistRecords(ctx, []model.Notification{n})
	})

	return sess
}

// seedFromCache primes the store with the last persisted records so
// the UI has data even if the network load fails.
func (h *Hub) seedFromCache(ctx context.Context, store *Store) {
	if h.cache == nil {
		return
	}
	cached, err := h.cache.Notifications(ctx, store.UserID(), 0)
	if err != nil {
		h.logger.Warn("reading cached notifications failed", zap.Error(err))
		return
	}
	if len(cached) > 0 {
		store.Prime(cached)
	}
}

// persistSnapshot writes the store's current records to the cache.
func (h *Hub) persistSnapshot(store *Store) {
	if h.cache == nil {
		return
	}
	snap := store.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := h.cache.UpsertNotifications(ctx, snap.Notifications); err != nil {
		h.logger.Warn("persisting notifications failed", zap.Error(err))
	}
}

func (h *Hub) persistRecords(ctx context.Context, records []model.Notification) {
	if h.cache == nil {
		return
	}
	if err := h.cache.UpsertNotifications(ctx, records); err != nil {
		h.logger.Warn("persisting notifications failed", zap.Error(err))
	}
}

// snapshotLocked merges the store snapshot with session-level stream
// health. Caller holds h.mu.
func (h *Hub) snapshotLocked(sess *userSession) Snapshot {
	snap := sess.store.Snapshot()
	snap.Degraded = sess.degraded
	return snap
}

// broadcast pushes the latest snapshot to every subscriber of a user.
// Sends never block: a full channel is drained of its stale snapshot
// first, so each subscriber always ends up with the newest state.
func (h *Hub) broadcast(userID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions[userID]
	if !ok {
		return
	}

	snap := h.snapshotLocked(sess)
	for _, ch := range sess.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// setDegraded records stream health and notifies subscribers when it
// changes.
func (h *Hub) setDegraded(userID int, degraded bool) {
	h.mu.Lock()
	sess, ok := h.sessions[userID]
	if !ok || sess.degraded == degraded {
		h.mu.Unlock()
		return
	}
	sess.degraded = degraded
	h.mu.Unlock()
	h.broadcast(userID)
}

// Refresh redoes the full fetch for a user's session, if one is open.
func (h *Hub) Refresh(userID int) {
	h.mu.Lock()
	sess, ok := h.sessions[userID]
	h.mu.Unlock()
	if !ok {
		return
	}
	go func() {
		if sess.store.Load(sess.ctx) == nil {
			h.persistSnapshot(sess.store)
		}
	}()
}

// MarkAsRead flips one record through the user's shared session. The
// call runs under the session context, so a mutation resolving after
// the session has closed updates nothing.
func (s *Subscription) MarkAsRead(id int) bool {
	sess := s.session()
	if sess == nil {
		return false
	}
	ok := sess.store.MarkAsRead(sess.ctx, id)
	if ok && s.hub.cache != nil {
		if err := s.hub.cache.MarkNotificationRead(sess.ctx, id); err != nil {
			s.hub.logger.Warn("caching read flag failed", zap.Error(err))
		}
	}
	return ok
}

// MarkAllAsRead flips every record through the user's shared session.
func (s *Subscription) MarkAllAsRead() bool {
	sess := s.session()
	if sess == nil {
		return false
	}
	ok := sess.store.MarkAllAsRead(sess.ctx)
	if ok && s.hub.cache != nil {
		if err := s.hub.cache.MarkAllNotificationsRead(sess.ctx, s.userID); err != nil {
			s.hub.logger.Warn("caching read flags failed", zap.Error(err))
		}
	}
	return ok
}

// Refresh redoes the full fetch for this subscription's user.
func (s *Subscription) Refresh() {
	s.hub.Refresh(s.userID)
}

// Snapshot returns the current state without waiting on the channel.
func (s *Subscription) Snapshot() Snapshot {
	sess := s.session()
	if sess == nil {
		return Snapshot{}
	}
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.hub.snapshotLocked(sess)
}

func (s *Subscription) session() *userSession {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.hub.sessions[s.userID]
}

// Close detaches the subscriber. When the last subscriber of a user
// leaves, the push stream is stopped and the session context cancelled
// so in-flight work cannot touch state owned by a dead session.
func (s *Subscription) Close() {
	h := s.hub
	h.mu.Lock()
	sess, ok := h.sessions[s.userID]
	if !ok {
		h.mu.Unlock()
		return
	}

	if ch, found := sess.subs[s.id]; found {
		delete(sess.subs, s.id)
		close(ch)
		sess.refs--
	}

	if sess.refs > 0 {
		h.mu.Unlock()
		return
	}

	delete(h.sessions, s.userID)
	h.mu.Unlock()

	sess.transport.Stop()
	sess.cancel()
}
