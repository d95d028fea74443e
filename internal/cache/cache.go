// Package cache keeps the last successful fetch of each collection on disk,
// so a failed refresh can render a stale snapshot instead of an empty page.
// Snapshots are advisory: a missing or unreadable cache never fails a caller.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agentdeck/internal/session"

	_ "modernc.org/sqlite"
)

const cacheFileName = "cache.sqlite"

type Cache struct {
	db *sql.DB
}

func Open(ctx context.Context) (*Cache, error) {
	dir, err := session.ConfigDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, cacheFileName))
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage (CLI and TUI may run side by side).
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS snapshots (
		user_email TEXT NOT NULL,
		resource TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		saved_at_unixms INTEGER NOT NULL,
		PRIMARY KEY (user_email, resource)
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Put stores v as the snapshot for (email, resource). Last write wins.
func (c *Cache) Put(ctx context.Context, email, resource string, v any) error {
	email = strings.ToLower(strings.TrimSpace(email))
	resource = strings.TrimSpace(resource)
	if email == "" || resource == "" {
		return errors.New("cache: email and resource are required")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `INSERT INTO snapshots (user_email, resource, payload_json, saved_at_unixms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_email, resource) DO UPDATE SET
			payload_json = excluded.payload_json,
			saved_at_unixms = excluded.saved_at_unixms;`,
		email, resource, string(b), time.Now().UnixMilli())
	return err
}

// Get loads the snapshot for (email, resource) into out and returns when it
// was saved. ok is false when no snapshot exists or it no longer decodes.
func (c *Cache) Get(ctx context.Context, email, resource string, out any) (time.Time, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var payload string
	var savedAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT payload_json, saved_at_unixms FROM snapshots WHERE user_email = ? AND resource = ?;`,
		email, strings.TrimSpace(resource)).Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(savedAt), true, nil
}
