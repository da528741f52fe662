// Package sampler looks inside mod files for adult vocabulary. It reads a
// bounded prefix of each file (or of each zip entry) so a large archive
// never costs more than a fixed byte budget.
package sampler

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/classify"
)

// Limits bound how much of a file is read.
type Limits struct {
	MaxBytes   int64 `yaml:"max_bytes" json:"max_bytes"`
	ChunkSize  int   `yaml:"chunk_size" json:"chunk_size"`
	MaxEntries int   `yaml:"max_entries" json:"max_entries"`
	MaxSources int   `yaml:"max_sources" json:"max_sources"`
}

// DefaultLimits returns a 2 MiB budget read in 64 KiB chunks, 40 zip entries
// and 5 example sources.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:   2 << 20,
		ChunkSize:  64 << 10,
		MaxEntries: 40,
		MaxSources: 5,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxBytes <= 0 {
		l.MaxBytes = def.MaxBytes
	}
	if l.ChunkSize <= 0 {
		l.ChunkSize = def.ChunkSize
	}
	if l.MaxEntries <= 0 {
		l.MaxEntries = def.MaxEntries
	}
	if l.MaxSources <= 0 {
		l.MaxSources = def.MaxSources
	}
	return l
}

// Sampler scans file content against a shared vocabulary. It holds no
// mutable state and is safe for concurrent use.
type Sampler struct {
	vocab  *classify.Vocabulary
	limits Limits
}

// New returns a sampler. Zero limits take their defaults.
func New(vocab *classify.Vocabulary, limits Limits) *Sampler {
	return &Sampler{vocab: vocab, limits: limits.withDefaults()}
}

// Limits reports the effective limits.
func (s *Sampler) Limits() Limits {
	return s.limits
}

// Sample dispatches on ext and returns the content findings for path. A file
// that cannot be opened or read yields nil.
func (s *Sampler) Sample(path, ext string) []classify.Finding {
	if s == nil || s.vocab.Len() == 0 {
		return nil
	}
	ext = framework.NormalizeExt(ext)
	var f classify.Finding
	switch {
	case framework.PackageExts[ext]:
		f = classify.Finding{Kind: classify.ContentPackage, Hits: s.ScanFile(path), Reason: "package content"}
	case framework.ScriptExts[ext]:
		hits, sources, more := s.ScanZip(path)
		f = classify.Finding{Kind: classify.ContentScript, Hits: hits, Reason: summarizeSources("script archive", sources, more)}
	case ext == ".zip":
		hits, sources, more := s.ScanZip(path)
		f = classify.Finding{Kind: classify.ContentArchive, Hits: hits, Reason: summarizeSources("zip archive", sources, more)}
	case framework.ArchiveExts[ext]:
		f = classify.Finding{Kind: classify.ContentArchive, Hits: s.ScanFile(path), Reason: ext[1:] + " archive binary content"}
	case framework.TextExts[ext]:
		f = classify.Finding{Kind: classify.ContentText, Hits: s.ScanFile(path), Reason: "text content"}
	}
	if len(f.Hits) == 0 {
		return nil
	}
	return []classify.Finding{f}
}

// ScanFile streams up to MaxBytes of path.
func (s *Sampler) ScanFile(path string) []string {
	fh, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer fh.Close()
	return s.ScanStream(fh, s.limits.MaxBytes)
}

// ScanStream reads r in chunks up to limit bytes and reports every
// vocabulary word seen. The tail of each chunk is carried into the next so a
// word split across a chunk boundary is still found.
func (s *Sampler) ScanStream(r io.Reader, limit int64) []string {
	if limit <= 0 || s.vocab.Len() == 0 {
		return nil
	}
	keep := s.vocab.MaxWordLen() - 1
	if keep < 0 {
		keep = 0
	}
	found := map[string]struct{}{}
	buf := make([]byte, s.limits.ChunkSize)
	var carry []byte
	remaining := limit
	for remaining > 0 {
		want := int64(len(buf))
		if remaining < want {
			want = remaining
		}
		n, err := io.ReadFull(r, buf[:want])
		if n > 0 {
			remaining -= int64(n)
			window := append(carry, lowerASCII(buf[:n])...)
			for _, hit := range s.vocab.SubstringHits(string(window)) {
				found[hit] = struct{}{}
			}
			if len(window) > keep {
				window = window[len(window)-keep:]
			}
			carry = append(carry[:0:0], window...)
			if len(found) == s.vocab.Len() {
				break
			}
		}
		if err != nil {
			break
		}
	}
	return sortedHits(found)
}

// ScanZip checks at most MaxEntries file entries of a zip. An entry whose
// name matches is not opened; otherwise its content is streamed up to the
// byte budget. sources lists up to MaxSources example entries and more
// reports whether further entries matched.
func (s *Sampler) ScanZip(path string) (hits []string, sources []string, more bool) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, false
	}
	defer zr.Close()

	found := map[string]struct{}{}
	addSource := func(src string) {
		if len(sources) < s.limits.MaxSources {
			sources = append(sources, src)
		} else {
			more = true
		}
	}
	inspected := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if inspected >= s.limits.MaxEntries {
			break
		}
		inspected++

		if nameHits := s.vocab.SubstringHits(strings.ToLower(f.Name)); len(nameHits) > 0 {
			for _, h := range nameHits {
				found[h] = struct{}{}
			}
			addSource(f.Name + " (name)")
			continue
		}
		limit := int64(f.UncompressedSize64)
		if limit > s.limits.MaxBytes {
			limit = s.limits.MaxBytes
		}
		if limit <= 0 {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		entryHits := s.ScanStream(rc, limit)
		rc.Close()
		if len(entryHits) > 0 {
			for _, h := range entryHits {
				found[h] = struct{}{}
			}
			addSource(f.Name + " (content)")
		}
	}
	return sortedHits(found), sources, more
}

func summarizeSources(label string, sources []string, more bool) string {
	if len(sources) == 0 {
		return label + " content"
	}
	display := strings.Join(sources, ", ")
	if more {
		display += ", ..."
	}
	return fmt.Sprintf("%s content (%s)", label, display)
}

func lowerASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}

func sortedHits(found map[string]struct{}) []string {
	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for h := range found {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
