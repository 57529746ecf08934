// Package store provides a SQLite-backed cache for session listing entries.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ccreport/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed listing caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveEntry stores a listing entry and its file tracking info.
func (c *Cache) SaveEntry(e source.SessionEntry, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	firstTS := ""
	if !e.FirstTime.IsZero() {
		firstTS = e.FirstTime.UTC().Format(time.RFC3339)
	}
	lastTS := ""
	if !e.LastTime.IsZero() {
		lastTS = e.LastTime.UTC().Format(time.RFC3339)
	}

	isSubagent := 0
	if e.IsSubagent {
		isSubagent = 1
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO sessions
		(file_path, session_id, project, is_subagent, parent_session,
		 summary, first_ts, last_ts, user_messages, assistant_messages,
		 size_bytes, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.SessionID, e.Project, isSubagent, e.ParentSession,
		e.Summary, firstTS, lastTS, e.UserMessages, e.AssistantMessages,
		e.SizeBytes, now,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, e.Path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadAllEntries reads all cached listing entries from the database.
func (c *Cache) LoadAllEntries() ([]source.SessionEntry, error) {
	rows, err := c.db.Query(`SELECT
		file_path, session_id, project, is_subagent, parent_session,
		summary, first_ts, last_ts, user_messages, assistant_messages, size_bytes
		FROM sessions`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []source.SessionEntry
	for rows.Next() {
		var e source.SessionEntry
		var firstStr, lastStr, parentSession, summary sql.NullString
		var isSubagent int

		err := rows.Scan(
			&e.Path, &e.SessionID, &e.Project, &isSubagent, &parentSession,
			&summary, &firstStr, &lastStr, &e.UserMessages, &e.AssistantMessages,
			&e.SizeBytes,
		)
		if err != nil {
			return nil, err
		}

		e.IsSubagent = isSubagent != 0
		if parentSession.Valid {
			e.ParentSession = parentSession.String
		}
		if summary.Valid {
			e.Summary = summary.String
		}
		if firstStr.Valid && firstStr.String != "" {
			e.FirstTime, _ = time.Parse(time.RFC3339, firstStr.String)
		}
		if lastStr.Valid && lastStr.String != "" {
			e.LastTime, _ = time.Parse(time.RFC3339, lastStr.String)
		}

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteEntry removes a listing entry and its tracking row. Used to evict
// sessions whose files disappeared from disk.
func (c *Cache) DeleteEntry(filePath string) error {
	if _, err := c.db.Exec("DELETE FROM sessions WHERE file_path = ?", filePath); err != nil {
		return err
	}
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}
