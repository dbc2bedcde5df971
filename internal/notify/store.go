package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"cems-client/internal/model"
)

// loadErrText is the user-facing message for a failed full fetch. The
// underlying error goes to the log, not the UI.
const loadErrText = "Failed to load notifications"

// API is the slice of the backend client the store depends on. Tests
// substitute fakes.
type API interface {
	ListNotifications(ctx context.Context, userID int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int) error
	MarkAllNotificationsRead(ctx context.Context, userID int) error
}

// Snapshot is the read-only view handed to subscribers. Notifications
// are ordered newest first.
type Snapshot struct {
	Notifications []model.Notification
	Loading       bool
	Err           string
	Unread        int

	// Degraded reports sustained stream trouble. The feed keeps
	// retrying either way; surfacing this is optional for views.
	Degraded bool
}

// Store owns the authoritative client-side notification list for one
// user. The collection is keyed by ID, so an insert of a record that is
// already present (push duplicate, or push racing a full reload) is an
// idempotent upsert and every server-side record appears exactly once.
type Store struct {
	api    API
	logger *zap.Logger
	userID int

	mu      sync.Mutex
	order   []int
	byID    map[int]model.Notification
	loading bool
	loadErr string

	// onChange fires after every state change, outside the lock.
	onChange func()
}

// NewStore creates an empty store for one user's notifications.
func NewStore(api API, userID int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:    api,
		logger: logger,
		userID: userID,
		byID:   make(map[int]model.Notification),
	}
}

// SetOnChange registers a callback invoked after every state change.
// It must be set before the store is shared across goroutines.
func (s *Store) SetOnChange(fn func()) {
	s.onChange = fn
}

// UserID returns the owning user.
func (s *Store) UserID() int {
	return s.userID
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Prime seeds the store with cached records when it is still empty,
// so a view has something to show before the network answers. A later
// Load replaces the seed wholesale.
func (s *Store) Prime(records []model.Notification) {
	s.mu.Lock()
	if len(s.order) > 0 {
		s.mu.Unlock()
		return
	}
	s.replaceLocked(records)
	s.mu.Unlock()
	s.changed()
}

// replaceLocked swaps the whole collection. Caller holds s.mu.
func (s *Store) replaceLocked(records []model.Notification) {
	s.order = s.order[:0]
	s.byID = make(map[int]model.Notification, len(records))
	for _, n := range records {
		if _, ok := s.byID[n.ID]; ok {
			continue
		}
		s.order = append(s.order, n.ID)
		s.byID[n.ID] = n
	}
}

// Load performs a full fetch for the owning user, replacing the entire
// local list. On failure the previous list is left untouched and the
// error surfaces as a user-facing string in the snapshot. Safe to call
// again at any time; each call simply redoes the full replace.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.changed()

	records, err := s.api.ListNotifications(ctx, s.userID)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.loadErr = loadErrText
		s.mu.Unlock()
		s.changed()
		s.logger.Warn("notification load failed",
			zap.Int("user_id", s.userID),
			zap.Error(err),
		)
		return err
	}

	s.loadErr = ""
	s.replaceLocked(records)
	s.mu.Unlock()
	s.changed()
	return nil
}

// Apply inserts a push-delivered record without a network round-trip.
// New records are prepended (newest first); a record already present is
// updated in place.
func (s *Store) Apply(n model.Notification) {
	s.mu.Lock()
	if _, ok := s.byID[n.ID]; ok {
		s.byID[n.ID] = n
	} else {
		s.order = append([]int{n.ID}, s.order...)
		s.byID[n.ID] = n
	}
	s.mu.Unlock()
	s.changed()
}

// MarkAsRead asks the backend to flag one record read and flips the
// local copy only after the backend confirms. Marking an already-read
// record is a no-op that still reports success. The returned bool is
// the only error surface; the local list is never rolled back because
// it was never changed optimistically.
func (s *Store) MarkAsRead(ctx context.Context, id int) bool {
	if err := s.api.MarkNotificationRead(ctx, id); err != nil {
		s.logger.Warn("mark-as-read failed",
			zap.Int("notification_id", id),
			zap.Error(err),
		)
		return false
	}

	s.mu.Lock()
	if n, ok := s.byID[id]; ok && !n.IsRead {
		n.IsRead = true
		s.byID[id] = n
	}
	s.mu.Unlock()
	s.changed()
	return true
}

// MarkAllAsRead issues one bulk mutation and, on confirmation, flips
// every local record in a single pass.
func (s *Store) MarkAllAsRead(ctx context.Context) bool {
	if err := s.api.MarkAllNotificationsRead(ctx, s.userID); err != nil {
		s.logger.Warn("mark-all-as-read failed",
			zap.Int("user_id", s.userID),
			zap.Error(err),
		)
		return false
	}

	s.mu.Lock()
	for id, n := range s.byID {
		if !n.IsRead {
			n.IsRead = true
			s.byID[id] = n
		}
	}
	s.mu.Unlock()
	s.changed()
	return true
}

// Snapshot returns a copy of the current state. The unread count is
// always derived from the records, never tracked separately.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]model.Notification, 0, len(s.order))
	unread := 0
	for _, id := range s.order {
		n := s.byID[id]
		records = append(records, n)
		if !n.IsRead {
			unread++
		}
	}

	return Snapshot{
		Notifications: records,
		Loading:       s.loading,
		Err:           s.loadErr,
		Unread:        unread,
	}
}
