package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/scan"
	"github.com/stretchr/testify/require"
)

func sampleEntry(category string) scan.Entry {
	return scan.Entry{
		Classification: framework.Classification{
			Category:     category,
			Confidence:   0.8,
			Notes:        "Types: CASP:1",
			Tags:         []string{"hair"},
			TargetFolder: "CAS Hair",
			Include:      true,
		},
		Size:        1024,
		MTime:       42,
		Fingerprint: "1024:00000001:00000000",
	}
}

func TestScanCacheStoreAndLookup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	cache, err := OpenScanCache(path, "1.0-aaaa")
	require.NoError(t, err)
	defer cache.Close()

	_, ok, err := cache.Lookup(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	entry := sampleEntry(framework.CategoryCASHair)
	require.NoError(t, cache.Store(ctx, "a.package:1024:42", entry))
	got, ok, err := cache.Lookup(ctx, "a.package:1024:42")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, entry, got)

	entry.Classification.Confidence = 0.95
	require.NoError(t, cache.Store(ctx, "a.package:1024:42", entry))
	got, _, err = cache.Lookup(ctx, "a.package:1024:42")
	require.NoError(t, err)
	require.Equal(t, 0.95, got.Classification.Confidence)
}

func TestScanCachePurgesOtherRulesVersions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	cache, err := OpenScanCache(path, "v1")
	require.NoError(t, err)
	require.NoError(t, cache.Store(ctx, "k", sampleEntry(framework.CategoryPose)))
	require.NoError(t, cache.Close())

	same, err := OpenScanCache(path, "v1")
	require.NoError(t, err)
	_, ok, err := same.Lookup(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, same.Close())

	next, err := OpenScanCache(path, "v2")
	require.NoError(t, err)
	defer next.Close()
	_, ok, err = next.Lookup(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	stats, err := next.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Entries)
}

func TestScanCacheStatsAndClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	cache, err := OpenScanCache(path, "v1")
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Store(ctx, "a", sampleEntry(framework.CategoryCASHair)))
	require.NoError(t, cache.Store(ctx, "b", sampleEntry(framework.CategoryCASHair)))
	off := sampleEntry(framework.CategoryPose)
	off.Disabled = true
	require.NoError(t, cache.Store(ctx, "c", off))

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, path, stats.Path)
	require.Equal(t, "v1", stats.RulesVersion)
	require.Equal(t, 3, stats.Entries)
	require.Equal(t, 1, stats.Disabled)
	require.Equal(t, map[string]int{framework.CategoryCASHair: 2, framework.CategoryPose: 1}, stats.Categories)
	require.False(t, stats.LastWrite.IsZero())

	removed, err := cache.Clear(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, removed)
	stats, err = cache.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Entries)
}

func TestOpenScanCacheValidatesArguments(t *testing.T) {
	_, err := OpenScanCache("", "v1")
	require.Error(t, err)
	_, err = OpenScanCache(filepath.Join(t.TempDir(), "c.db"), "")
	require.Error(t, err)
}

func TestScannerServesRepeatScanFromCache(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "cute_hair.package"), []byte("not a dbpf"), 0o644))
	cache, err := OpenScanCache(filepath.Join(t.TempDir(), "cache.db"), "v1")
	require.NoError(t, err)
	defer cache.Close()

	req := framework.ScanRequest{Root: root, Recurse: true}
	first, err := scan.New(scan.Options{Cache: cache})
	require.NoError(t, err)
	res := first.Scan(ctx, req)
	require.Len(t, res.Items, 1)
	require.Equal(t, 1, res.Metrics.FilesScanned)

	// A fresh scanner has an empty memo, so the hit comes from sqlite.
	second, err := scan.New(scan.Options{Cache: cache})
	require.NoError(t, err)
	again := second.Scan(ctx, req)
	require.Len(t, again.Items, 1)
	require.Equal(t, 0, again.Metrics.FilesScanned)
	require.Equal(t, 1, again.Metrics.CacheHits)
	require.Equal(t, res.Items[0].Classification, again.Items[0].Classification)
}
