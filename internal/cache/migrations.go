package cache

// migration pairs a schema version with the SQL that brings the
// database up to it.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS notifications (
	id         INTEGER NOT NULL,
	user_id    INTEGER NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL DEFAULT '',
	is_read    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_created
	ON notifications (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS activities (
	id           INTEGER PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	location     TEXT NOT NULL DEFAULT '',
	date_start   TIMESTAMP NOT NULL,
	date_end     TIMESTAMP NOT NULL,
	capacity     INTEGER NOT NULL DEFAULT 0,
	poster_image TEXT NOT NULL DEFAULT '',
	status_id    INTEGER NOT NULL DEFAULT 0,
	club_id      INTEGER NOT NULL DEFAULT 0,
	category_id  INTEGER NOT NULL DEFAULT 0
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
