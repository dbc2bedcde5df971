package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cems-client/internal/model"
)

// notificationWire is the backend's notification shape. CreatedAt comes
// over as a string that is not always valid RFC 3339, so it is decoded
// separately and run through model.ParseTimestamp.
type notificationWire struct {
	ID        int    `json:"ID"`
	UserID    int    `json:"UserID"`
	Message   string `json:"Message"`
	Type      string `json:"Type"`
	IsRead    bool   `json:"IsRead"`
	CreatedAt string `json:"CreatedAt"`
}

// toModel converts a wire record, substituting the current time for a
// timestamp that cannot be parsed. Malformed inputs are logged, never
// surfaced.
func (w notificationWire) toModel(logger *zap.Logger) model.Notification {
	ts, err := model.ParseTimestamp(w.CreatedAt)
	if err != nil {
		logger.Warn("falling back on malformed notification timestamp",
			zap.Int("id", w.ID),
			zap.String("created_at", w.CreatedAt),
			zap.Error(err),
		)
	}
	return model.Notification{
		ID:        w.ID,
		UserID:    w.UserID,
		Message:   w.Message,
		Type:      w.Type,
		IsRead:    w.IsRead,
		CreatedAt: ts,
	}
}

// ListNotifications fetches all notifications for a user, newest first.
func (c *Client) ListNotifications(
	ctx context.Context,
	userID int,
) ([]model.Notification, error) {
	var wire []notificationWire
	path := fmt.Sprintf("/notifications/%d", userID)
	if err := c.Get(ctx, path, &wire); err != nil {
		return nil, fmt.Errorf("fetching notifications for user %d: %w", userID, err)
	}

	records := make([]model.Notification, 0, len(wire))
	for _, w := range wire {
		records = append(records, w.toModel(c.logger))
	}
	return records, nil
}

// MarkNotificationRead marks one notification as read. Any 2xx response
// counts as success; marking an already-read record again succeeds and
// changes nothing server-side.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	path := fmt.Sprintf("/notifications/read/%d", id)
	if err := c.Put(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification of a user as read
// with a single bulk request.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID int) error {
	path := fmt.Sprintf("/notifications/read-all/%d", userID)
	if err := c.Put(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking all notifications read for user %d: %w", userID, err)
	}
	return nil
}
