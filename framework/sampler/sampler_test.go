package sampler

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lexcodex/modsorter/framework/classify"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, names []string, bodies []string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(bodies[i]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestScanStreamFindsWordAcrossChunkBoundary(t *testing.T) {
	vocab := classify.NewVocabulary([]string{"lingerie"}, nil)
	s := New(vocab, Limits{ChunkSize: 16})

	// "LINGERIE" straddles the 16 byte boundary
	data := strings.Repeat("x", 12) + "LINGERIE" + strings.Repeat("y", 30)
	require.Equal(t, []string{"lingerie"}, s.ScanStream(strings.NewReader(data), int64(len(data))))
}

func TestScanStreamRespectsBudget(t *testing.T) {
	vocab := classify.NewVocabulary([]string{"nude"}, nil)
	s := New(vocab, Limits{ChunkSize: 8})

	data := strings.Repeat("a", 100) + "nude"
	require.Nil(t, s.ScanStream(strings.NewReader(data), 100))
	require.Equal(t, []string{"nude"}, s.ScanStream(strings.NewReader(data), 104))
	require.Nil(t, s.ScanStream(strings.NewReader(data), 0))
}

func TestSamplePackage(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "outfit.package")
	require.NoError(t, os.WriteFile(p, []byte("DBPF\x00\x01 Nude animation data"), 0o644))

	s := New(classify.DefaultVocabulary(), Limits{})
	findings := s.Sample(p, ".package")
	require.Len(t, findings, 1)
	require.Equal(t, classify.ContentPackage, findings[0].Kind)
	require.Equal(t, []string{"nude"}, findings[0].Hits)
	require.Equal(t, "package content", findings[0].Reason)

	clean := filepath.Join(dir, "clean.package")
	require.NoError(t, os.WriteFile(clean, []byte("DBPF just furniture"), 0o644))
	require.Nil(t, s.Sample(clean, ".package"))
	require.Nil(t, s.Sample(filepath.Join(dir, "missing.package"), ".package"))
}

func TestSampleScriptArchive(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mod.ts4script")
	writeZip(t, p,
		[]string{"nsfw/readme.txt", "main.py", "clean.py"},
		[]string{"hello", "def strip_club(): pass", "print('hi')"})

	s := New(classify.DefaultVocabulary(), Limits{})
	findings := s.Sample(p, ".ts4script")
	require.Len(t, findings, 1)
	require.Equal(t, classify.ContentScript, findings[0].Kind)
	require.Equal(t, []string{"nsfw", "strip"}, findings[0].Hits)
	require.Equal(t, "script archive content (nsfw/readme.txt (name), main.py (content))", findings[0].Reason)
}

func TestScanZipLimitsEntriesAndSources(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pack.zip")
	var names, bodies []string
	for i := 0; i < 8; i++ {
		names = append(names, fmt.Sprintf("part%d.txt", i))
		bodies = append(bodies, "bondage")
	}
	writeZip(t, p, names, bodies)

	s := New(classify.DefaultVocabulary(), Limits{MaxEntries: 7, MaxSources: 2})
	hits, sources, more := s.ScanZip(p)
	require.Equal(t, []string{"bondage"}, hits)
	require.Equal(t, []string{"part0.txt (content)", "part1.txt (content)"}, sources)
	require.True(t, more)

	findings := s.Sample(p, ".zip")
	require.Len(t, findings, 1)
	require.Equal(t, classify.ContentArchive, findings[0].Kind)
	require.Equal(t, "zip archive content (part0.txt (content), part1.txt (content), ...)", findings[0].Reason)
}

func TestSampleBrokenZipIsEmpty(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "broken.ts4script")
	require.NoError(t, os.WriteFile(p, []byte("nude but not a zip"), 0o644))

	s := New(classify.DefaultVocabulary(), Limits{})
	require.Nil(t, s.Sample(p, ".ts4script"))
}

func TestSampleBinaryArchiveAndText(t *testing.T) {
	dir := t.TempDir()
	rar := filepath.Join(dir, "stuff.rar")
	require.NoError(t, os.WriteFile(rar, []byte("Rar!\x1a\x07 hentai"), 0o644))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("Requires the Fetish framework"), 0o644))

	s := New(classify.DefaultVocabulary(), Limits{})

	findings := s.Sample(rar, ".rar")
	require.Len(t, findings, 1)
	require.Equal(t, "rar archive binary content", findings[0].Reason)
	require.Equal(t, classify.ContentArchive, findings[0].Kind)

	findings = s.Sample(txt, ".txt")
	require.Len(t, findings, 1)
	require.Equal(t, classify.ContentText, findings[0].Kind)
	require.Equal(t, []string{"fetish"}, findings[0].Hits)

	require.Nil(t, s.Sample(txt, ".png"))
}
