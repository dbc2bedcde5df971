package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cems-client/internal/model"
)

// fakeAPI is a controllable backend for store and hub tests.
type fakeAPI struct {
	mu           sync.Mutex
	records      []model.Notification
	listErr      error
	markErr      error
	markAllErr   error
	listCalls    int
	markedIDs    []int
	markAllUsers []int
}

func (f *fakeAPI) ListNotifications(_ context.Context, _ int) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Notification, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAPI) MarkNotificationRead(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.markedIDs = append(f.markedIDs, id)
	return nil
}

func (f *fakeAPI) MarkAllNotificationsRead(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markAllErr != nil {
		return f.markAllErr
	}
	f.markAllUsers = append(f.markAllUsers, userID)
	return nil
}

func record(id int, read bool) model.Notification {
	return model.Notification{
		ID:        id,
		UserID:    7,
		Message:   "msg",
		Type:      "announcement",
		IsRead:    read,
		CreatedAt: time.Now(),
	}
}

func TestStoreLoadReplacesList(t *testing.T) {
	api := &fakeAPI{records: []model.Notification{
		record(3, false), record(2, true), record(1, false),
	}}
	s := NewStore(api, 7, nil)

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Notifications, 3)
	assert.Equal(t, 3, snap.Notifications[0].ID)
	assert.Equal(t, 2, snap.Unread)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)

	// A second load fully replaces the first.
	api.mu.Lock()
	api.records = []model.Notification{record(9, false)}
	api.mu.Unlock()

	require.NoError(t, s.Load(context.Background()))
	snap = s.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, 9, snap.Notifications[0].ID)
}

func TestStoreLoadFailureKeepsLastGoodList(t *testing.T) {
	api := &fakeAPI{records: []model.Notification{record(1, false)}}
	s := NewStore(api, 7, nil)
	require.NoError(t, s.Load(context.Background()))

	api.mu.Lock()
	api.listErr = errors.New("boom")
	api.mu.Unlock()

	require.Error(t, s.Load(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Notifications, 1, "previous list survives a failed reload")
	assert.Equal(t, "Failed to load notifications", snap.Err)
	assert.False(t, snap.Loading)

	// A later successful load clears the error.
	api.mu.Lock()
	api.listErr = nil
	api.mu.Unlock()
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Snapshot().Err)
}

func TestStoreApplyPrependsAndUpserts(t *testing.T) {
	api := &fakeAPI{records: []model.Notification{record(1, false)}}
	s := NewStore(api, 7, nil)
	require.NoError(t, s.Load(context.Background()))

	s.Apply(record(2, false))

	snap := s.Snapshot()
	require.Len(t, snap.Notifications, 2)
	assert.Equal(t, 2, snap.Notifications[0].ID, "new record is prepended")
	assert.Equal(t, 2, snap.Unread)

	// The same ID again must not duplicate.
	n := record(2, false)
	n.Message = "updated"
	s.Apply(n)

	snap = s.Snapshot()
	require.Len(t, snap.Notifications, 2)
	assert.Equal(t, "updated", snap.Notifications[0].Message)
}

func TestStoreMarkAsReadConfirmFirst(t *testing.T) {
	api := &fakeAPI{records: []model.Notification{record(1, false), record(2, false)}}
	s := NewStore(api, 7, nil)
	require.NoError(t, s.Load(context.Background()))

	ok := s.MarkAsRead(context.Background(), 1)
	require.True(t, ok)
	assert.Equal(t, []int{1}, api.markedIDs)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Unread)
	for _, n := range snap.Notifications {
		if n.ID == 1 {
			assert.True(t, n.IsRead)
		}
	}

	// Marking the same record again still succeeds, still reaches the
	// backend, and decrements unread exactly once.
	require.True(t, s.MarkAsRead(context.Background(), 1))
	assert.Equal(t, []int{1, 1}, api.markedIDs)
	assert.Equal(t, 1, s.Snapshot().Unread)
}

func TestStoreMarkAsReadBackendFailureLeavesListUntouched(t *testing.T) {
	api := &fakeAPI{
		records: []model.Notification{record(1, false)},
		markErr: errors.New("boom"),
	}
	s := NewStore(api, 7, nil)
	require.NoError(t, s.Load(context.Background()))

	ok := s.MarkAsRead(context.Background(), 1)
	assert.False(t, ok)

	snap := s.Snapshot()
	assert.False(t, snap.Notifications[0].IsRead, "no optimistic flip on failure")
	assert.Equal(t, 1, snap.Unread)
}

func TestStoreMarkAllAsRead(t *testing.T) {
	api := &fakeAPI{records: []model.Notification{
		record(1, false), record(2, true), record(3, false),
	}}
	s := NewStore(api, 7, nil)
	require.NoError(t, s.Load(context.Background()))

	require.True(t, s.MarkAllAsRead(context.Background()))
	assert.Equal(t, []int{7}, api.markAllUsers)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Unread)
	for _, n := range snap.Notifications {
		assert.True(t, n.IsRead)
	}
}

func TestStorePrimeOnlySeedsEmptyStore(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(api, 7, nil)

	s.Prime([]model.Notification{record(1, false)})
	require.Len(t, s.Snapshot().Notifications, 1)

	// Priming again must not disturb existing state.
	s.Prime([]model.Notification{record(2, false), record(3, false)})
	snap := s.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, 1, snap.Notifications[0].ID)
}

// Full lifecycle: load a mixed list, mark one read, then receive a
// push, checking order and the derived unread count at each step.
func TestStoreLifecycle(t *testing.T) {
	api := &fakeAPI{records: []model.Notification{
		record(5, false), record(4, true), record(3, false),
		record(2, true), record(1, false),
	}}
	s := NewStore(api, 7, nil)

	var changes int
	s.SetOnChange(func() { changes++ })

	require.NoError(t, s.Load(context.Background()))
	snap := s.Snapshot()
	require.Len(t, snap.Notifications, 5)
	assert.Equal(t, 3, snap.Unread)

	require.True(t, s.MarkAsRead(context.Background(), 5))
	assert.Equal(t, 2, s.Snapshot().Unread)

	s.Apply(record(6, false))
	snap = s.Snapshot()
	require.Len(t, snap.Notifications, 6)
	assert.Equal(t, 6, snap.Notifications[0].ID)
	assert.Equal(t, 3, snap.Unread)

	assert.GreaterOrEqual(t, changes, 4, "every state change notifies")
}
