// Package audit keeps a durable journal of every moderation and lockdown
// notice the bot publishes. The journal is an independent record: failures
// writing it are logged by callers and never fail the operation that
// produced the event.
package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one journaled event.
type Entry struct {
	ID        string
	GuildID   string
	Kind      string // "warn", "ban", "lockdown", "unlock", ...
	ActorID   string
	TargetID  string
	Summary   string
	CreatedAt int64
}

// Journal is a SQLite-backed append-only event log.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return j, nil
}

func (j *Journal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mod_log (
		id TEXT PRIMARY KEY,
		guild_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		actor_id TEXT DEFAULT '',
		target_id TEXT DEFAULT '',
		summary TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mod_log_guild ON mod_log(guild_id);
	CREATE INDEX IF NOT EXISTS idx_mod_log_created ON mod_log(created_at);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Append records an entry. A missing ID or timestamp is filled in.
func (j *Journal) Append(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	_, err := j.db.Exec(
		`INSERT INTO mod_log (id, guild_id, kind, actor_id, target_id, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.GuildID, e.Kind, e.ActorID, e.TargetID, e.Summary, e.CreatedAt,
	)
	return err
}

// Recent returns the newest entries for a guild, newest first.
func (j *Journal) Recent(guildID string, limit int) ([]*Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, guild_id, kind, actor_id, target_id, summary, created_at
		 FROM mod_log WHERE guild_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		guildID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.GuildID, &e.Kind, &e.ActorID, &e.TargetID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
