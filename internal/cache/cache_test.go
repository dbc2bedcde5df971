package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cems-client/internal/model"
	"cems-client/tests/testutil"
)

func notification(id, userID int, read bool, at time.Time) model.Notification {
	return model.Notification{
		ID:        id,
		UserID:    userID,
		Message:   "msg",
		Type:      "announcement",
		IsRead:    read,
		CreatedAt: at,
	}
}

func TestNotificationsRoundTrip(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, c.UpsertNotifications(ctx, []model.Notification{
		notification(1, 7, false, base),
		notification(2, 7, false, base.Add(time.Hour)),
		notification(3, 9, false, base), // another user
	}))

	records, err := c.Notifications(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, records, 2, "only the requested user's records")
	assert.Equal(t, 2, records[0].ID, "newest first")
	assert.Equal(t, 1, records[1].ID)

	limited, err := c.Notifications(ctx, 7, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 2, limited[0].ID)
}

func TestUpsertNotificationsIsIdempotent(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	n := notification(1, 7, false, at)
	require.NoError(t, c.UpsertNotifications(ctx, []model.Notification{n}))

	n.IsRead = true
	require.NoError(t, c.UpsertNotifications(ctx, []model.Notification{n}))

	records, err := c.Notifications(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, records, 1, "same ID replaces, never duplicates")
	assert.True(t, records[0].IsRead)
}

func TestMarkNotificationsRead(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, c.UpsertNotifications(ctx, []model.Notification{
		notification(1, 7, false, at),
		notification(2, 7, false, at.Add(time.Minute)),
		notification(3, 7, false, at.Add(2*time.Minute)),
	}))

	require.NoError(t, c.MarkNotificationRead(ctx, 1))
	records, _ := c.Notifications(ctx, 7, 0)
	readCount := 0
	for _, n := range records {
		if n.IsRead {
			readCount++
		}
	}
	assert.Equal(t, 1, readCount)

	require.NoError(t, c.MarkAllNotificationsRead(ctx, 7))
	records, _ = c.Notifications(ctx, 7, 0)
	for _, n := range records {
		assert.True(t, n.IsRead)
	}
}

func TestActivitiesRoundTrip(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	start := time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)
	require.NoError(t, c.UpsertActivities(ctx, []model.Activity{
		{
			ID:        2,
			Title:     "Later",
			DateStart: start.Add(24 * time.Hour),
			DateEnd:   start.Add(26 * time.Hour),
			Capacity:  30,
		},
		{
			ID:        1,
			Title:     "Sooner",
			DateStart: start,
			DateEnd:   start.Add(2 * time.Hour),
			Capacity:  10,
		},
	}))

	activities, err := c.Activities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "Sooner", activities[0].Title, "ordered by start date")
	assert.Equal(t, 10, activities[0].Capacity)
}
