package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one pooled connection avoids lock
	// contention and keeps in-memory databases on one handle.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
// The UNIQUE constraints on username and email are the real guard against
// concurrent registration; the application-level existence check only
// produces a friendlier error message.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		avatar_url TEXT NOT NULL,
		cover_image_url TEXT,
		password_hash TEXT NOT NULL,
		refresh_token TEXT,
		watch_history_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS videos (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id),
		video_url TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		duration REAL DEFAULT 0,
		views INTEGER DEFAULT 0,
		is_published INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tweets (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id),
		content TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS playlists (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		owner_id TEXT NOT NULL REFERENCES users(id),
		-- Store the video reference list as JSON text
		videos_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS likes (
		id TEXT NOT NULL PRIMARY KEY,
		video_id TEXT REFERENCES videos(id),
		tweet_id TEXT REFERENCES tweets(id),
		liked_by TEXT NOT NULL REFERENCES users(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_videos_owner ON videos(owner_id);
	CREATE INDEX IF NOT EXISTS idx_tweets_owner ON tweets(owner_id);
	CREATE INDEX IF NOT EXISTS idx_playlists_owner ON playlists(owner_id);
	CREATE INDEX IF NOT EXISTS idx_likes_user ON likes(liked_by);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
