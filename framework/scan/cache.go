package scan

import (
	"context"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lexcodex/modsorter/framework"
)

// Entry is what a cache remembers about one file version.
type Entry struct {
	Classification framework.Classification `json:"classification"`
	Disabled       bool                     `json:"disabled"`
	Size           int64                    `json:"size"`
	MTime          int64                    `json:"mtime"`
	Fingerprint    string                   `json:"fingerprint,omitempty"`
}

// Cache persists classifications between scans. Keys come from CacheKey so
// a changed file never matches a stale entry.
type Cache interface {
	Lookup(ctx context.Context, key string) (Entry, bool, error)
	Store(ctx context.Context, key string, entry Entry) error
}

// CacheKey identifies one version of a file as seen from one scan root:
// path|rel:size:mtime. Folder evidence depends on rel, so the same file
// scanned from another root gets its own entry.
func CacheKey(path, rel string, info os.FileInfo) string {
	return fmt.Sprintf("%s|%s:%d:%d", path, rel, info.Size(), info.ModTime().UnixNano())
}

// memoCache keeps recent entries in process memory in front of an optional
// persistent cache.
type memoCache struct {
	recent *lru.Cache[string, Entry]
	next   Cache
}

func newMemoCache(size int, next Cache) (Cache, error) {
	if size <= 0 {
		return next, nil
	}
	recent, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, fmt.Errorf("memo cache: %w", err)
	}
	return &memoCache{recent: recent, next: next}, nil
}

func (m *memoCache) Lookup(ctx context.Context, key string) (Entry, bool, error) {
	if entry, ok := m.recent.Get(key); ok {
		return entry, true, nil
	}
	if m.next == nil {
		return Entry{}, false, nil
	}
	entry, ok, err := m.next.Lookup(ctx, key)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	m.recent.Add(key, entry)
	return entry, true, nil
}

func (m *memoCache) Store(ctx context.Context, key string, entry Entry) error {
	m.recent.Add(key, entry)
	if m.next == nil {
		return nil
	}
	return m.next.Store(ctx, key, entry)
}
