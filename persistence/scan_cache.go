package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lexcodex/modsorter/framework/scan"
	_ "github.com/mattn/go-sqlite3"
)

// ScanCache persists classification verdicts in SQLite so unchanged files
// are not re-read on the next scan. Rows written under another rules
// version are purged when the cache opens.
type ScanCache struct {
	db           *sql.DB
	path         string
	rulesVersion string
}

var _ scan.Cache = (*ScanCache)(nil)

// CacheStats summarises the cache contents.
type CacheStats struct {
	Path         string         `json:"path" yaml:"path"`
	RulesVersion string         `json:"rules_version" yaml:"rules_version"`
	Entries      int            `json:"entries" yaml:"entries"`
	Disabled     int            `json:"disabled" yaml:"disabled"`
	Categories   map[string]int `json:"categories" yaml:"categories"`
	LastWrite    time.Time      `json:"last_write,omitempty" yaml:"last_write,omitempty"`
}

// OpenScanCache opens or creates the cache database at dbPath.
func OpenScanCache(dbPath, rulesVersion string) (*ScanCache, error) {
	if dbPath == "" {
		return nil, errors.New("cache path required")
	}
	if rulesVersion == "" {
		return nil, errors.New("rules version required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// go-sqlite3 serialises writers; one connection avoids SQLITE_BUSY
	// under the scanner's worker pool.
	db.SetMaxOpenConns(1)
	store := &ScanCache{db: db, path: dbPath, rulesVersion: rulesVersion}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`DELETE FROM entries WHERE rules_version != ?`, rulesVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("purge stale entries: %w", err)
	}
	return store, nil
}

func (c *ScanCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		rules_version TEXT NOT NULL,
		category TEXT,
		confidence REAL,
		disabled BOOLEAN,
		size INTEGER,
		mtime INTEGER,
		fingerprint TEXT,
		payload TEXT NOT NULL,
		updated_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_entries_fingerprint ON entries(fingerprint);
	`
	_, err := c.db.Exec(schema)
	return err
}

// RulesVersion is the version stamp new rows are written with.
func (c *ScanCache) RulesVersion() string {
	return c.rulesVersion
}

// Close releases the underlying database handle.
func (c *ScanCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the entry stored under key.
func (c *ScanCache) Lookup(ctx context.Context, key string) (scan.Entry, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT payload FROM entries WHERE key = ? AND rules_version = ?`,
		key, c.rulesVersion)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scan.Entry{}, false, nil
		}
		return scan.Entry{}, false, err
	}
	var entry scan.Entry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return scan.Entry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return entry, true, nil
}

// Store upserts entry under key.
func (c *ScanCache) Store(ctx context.Context, key string, entry scan.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	query := `
	INSERT INTO entries (
		key, rules_version, category, confidence, disabled, size, mtime,
		fingerprint, payload, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		rules_version=excluded.rules_version,
		category=excluded.category,
		confidence=excluded.confidence,
		disabled=excluded.disabled,
		size=excluded.size,
		mtime=excluded.mtime,
		fingerprint=excluded.fingerprint,
		payload=excluded.payload,
		updated_at=excluded.updated_at
	`
	_, err = c.db.ExecContext(ctx, query,
		key,
		c.rulesVersion,
		entry.Classification.Category,
		entry.Classification.Confidence,
		entry.Disabled,
		entry.Size,
		entry.MTime,
		entry.Fingerprint,
		string(payload),
		time.Now().Unix(),
	)
	return err
}

// Stats reports row counts by category.
func (c *ScanCache) Stats(ctx context.Context) (CacheStats, error) {
	stats := CacheStats{Path: c.path, RulesVersion: c.rulesVersion, Categories: map[string]int{}}
	rows, err := c.db.QueryContext(ctx,
		`SELECT category, disabled, COUNT(*) FROM entries GROUP BY category, disabled`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			category sql.NullString
			disabled bool
			count    int
		)
		if err := rows.Scan(&category, &disabled, &count); err != nil {
			return stats, err
		}
		stats.Entries += count
		if disabled {
			stats.Disabled += count
		}
		stats.Categories[category.String] += count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}
	var last sql.NullInt64
	if err := c.db.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM entries`).Scan(&last); err != nil {
		return stats, err
	}
	if last.Valid {
		stats.LastWrite = time.Unix(last.Int64, 0).UTC()
	}
	return stats, nil
}

// Clear drops every cached entry.
func (c *ScanCache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
