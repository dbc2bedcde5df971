// Package cache keeps a local SQLite snapshot of server data so the
// client can render last-known state offline and across restarts. The
// server stays authoritative; every network load fully replaces what
// is shown, and the cache only ever fills the gap before that load.
package cache

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"cems-client/internal/model"
)

// Cache is the SQLite-backed offline snapshot.
type Cache struct {
	db *sqlx.DB
}

// Open opens (or creates) the cache database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	c := &Cache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *Cache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertNotifications inserts or replaces a batch of notification
// records.
func (c *Cache) UpsertNotifications(
	ctx context.Context,
	records []model.Notification,
) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO notifications (
			id, user_id, message, type, is_read, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, n := range records {
		_, err = stmt.ExecContext(ctx,
			n.ID, n.UserID, n.Message, n.Type, n.IsRead, n.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting notification %d: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// Notifications returns one user's cached records, newest first.
// A limit of zero returns everything.
func (c *Cache) Notifications(
	ctx context.Context,
	userID, limit int,
) ([]model.Notification, error) {
	query := `
		SELECT id, user_id, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{userID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var records []model.Notification
	if err := c.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("querying cached notifications: %w", err)
	}
	return records, nil
}

// MarkNotificationRead flips one cached record's read flag.
func (c *Cache) MarkNotificationRead(ctx context.Context, id int) error {
	_, err := c.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking cached notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead flips every cached record of a user.
func (c *Cache) MarkAllNotificationsRead(ctx context.Context, userID int) error {
	_, err := c.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE user_id = ?", userID,
	)
	if err != nil {
		return fmt.Errorf("marking cached notifications read for user %d: %w", userID, err)
	}
	return nil
}

// UpsertActivities inserts or replaces a batch of activities.
func (c *Cache) UpsertActivities(
	ctx context.Context,
	activities []model.Activity,
) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO activities (
			id, title, description, location,
			date_start, date_end, capacity,
			poster_image, status_id, club_id, category_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range activities {
		_, err = stmt.ExecContext(ctx,
			a.ID, a.Title, a.Description, a.Location,
			a.DateStart.UTC(), a.DateEnd.UTC(), a.Capacity,
			a.PosterImage, a.StatusID, a.ClubID, a.CategoryID,
		)
		if err != nil {
			return fmt.Errorf("upserting activity %d: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// Activities returns all cached activities ordered by start date,
// soonest first.
func (c *Cache) Activities(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	err := c.db.SelectContext(ctx, &activities, `
		SELECT id, title, description, location,
		       date_start, date_end, capacity,
		       poster_image, status_id, club_id, category_id
		FROM activities
		ORDER BY date_start ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying cached activities: %w", err)
	}
	return activities, nil
}
