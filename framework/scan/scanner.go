// Package scan walks a mods folder and classifies every candidate file into
// an ordered list of FileItems.
package scan

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/bundle"
	"github.com/lexcodex/modsorter/framework/classify"
	"github.com/lexcodex/modsorter/framework/route"
	"github.com/lexcodex/modsorter/framework/sampler"
	"golang.org/x/sync/errgroup"
)

// Options configures a Scanner. Nil fields fall back to built-in defaults.
type Options struct {
	Classifier       *classify.Classifier
	Sampler          *sampler.Sampler
	Router           *route.Router
	SummaryEntries   int
	Workers          int
	DetectDuplicates bool

	// Cache persists classifications across runs; MemoSize entries are also
	// kept in memory for repeated scans in one process.
	Cache    Cache
	MemoSize int

	Hooks     *framework.Hooks
	Telemetry framework.Telemetry
	Progress  framework.ProgressFunc
	Logger    *log.Logger
	Debug     bool
}

// Scanner classifies the files below a root folder.
type Scanner struct {
	opts       Options
	classifier *classify.Classifier
	sampler    *sampler.Sampler
	router     *route.Router
	cache      Cache
	logger     *log.Logger
}

// New builds a scanner from opts.
func New(opts Options) (*Scanner, error) {
	s := &Scanner{
		opts:       opts,
		classifier: opts.Classifier,
		sampler:    opts.Sampler,
		router:     opts.Router,
		logger:     opts.Logger,
	}
	if s.classifier == nil {
		s.classifier = classify.Default()
	}
	if s.sampler == nil {
		s.sampler = sampler.New(s.classifier.Vocab, sampler.DefaultLimits())
	}
	if s.router == nil {
		s.router = route.Default()
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr, "scan ", log.LstdFlags)
	}
	if s.opts.Workers <= 0 {
		s.opts.Workers = runtime.NumCPU()
	}
	cache, err := newMemoCache(opts.MemoSize, opts.Cache)
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

func (s *Scanner) debugf(format string, args ...interface{}) {
	if s.opts.Debug {
		s.logger.Printf("[scanner] "+format, args...)
	}
}

// outcome is the per-candidate result collected by the worker pool.
type outcome struct {
	item        *framework.FileItem
	fingerprint string
	err         string
}

// Scan classifies every file under req.Root. Per-file problems end up in
// Errors; cancelling ctx stops the pass between files and returns what was
// classified so far.
func (s *Scanner) Scan(ctx context.Context, req framework.ScanRequest) *framework.ScanResult {
	start := time.Now()
	errs := s.opts.Hooks.RunPreScan(ctx, &req)
	for _, e := range errs {
		s.emit(framework.Event{Type: framework.EventHookError, Message: e})
	}
	result := &framework.ScanResult{Root: req.Root}

	info, err := os.Stat(req.Root)
	if err != nil || !info.IsDir() {
		result.Errors = append(errs, "Folder not found")
		return result
	}
	s.emit(framework.Event{Type: framework.EventScanStart, Path: req.Root, Metadata: map[string]interface{}{"recurse": req.Recurse}})

	candidates, walkErrs := listCandidates(req.Root, req.Recurse)
	errs = append(errs, walkErrs...)
	total := len(candidates)
	result.Total = total
	f := newFilters(req)

	var (
		mu       sync.Mutex
		outcomes = make([]outcome, total)
		metrics  framework.ScanMetrics
	)
	report := func(index int, p string, status framework.ScanStatus) {
		if s.opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		s.opts.Progress(index, total, p, status)
	}

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			out, status, elapsed := s.processFile(ctx, req, f, candidate)
			outcomes[i] = out
			mu.Lock()
			switch status {
			case framework.StatusScanned:
				metrics.FilesScanned++
				metrics.ClassifyTime += elapsed
			case framework.StatusCached:
				metrics.CacheHits++
			}
			mu.Unlock()
			report(i+1, candidate, status)
			return nil
		})
	}
	_ = g.Wait()

	prints := map[*framework.FileItem]string{}
	for _, out := range outcomes {
		if out.err != "" {
			errs = append(errs, out.err)
		}
		if out.item == nil {
			continue
		}
		if out.item.Disabled {
			result.Disabled = append(result.Disabled, out.item)
		} else {
			result.Items = append(result.Items, out.item)
		}
		if out.fingerprint != "" {
			prints[out.item] = out.fingerprint
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err.Error())
	}

	framework.SortItems(result.Items)
	framework.SortDisabled(result.Disabled)
	stats := bundle.Bundle(result.Items)
	s.debugf("bundled %d package(s) against %d script(s)", stats.Linked, stats.Scripts)
	if s.opts.DetectDuplicates {
		n := markDuplicates(result.Items, prints)
		s.debugf("marked %d duplicate(s)", n)
	}

	metrics.Duration = time.Since(start)
	result.Metrics = metrics
	hookErrs := s.opts.Hooks.RunPostScan(ctx, req, result)
	for _, e := range hookErrs {
		s.emit(framework.Event{Type: framework.EventHookError, Message: e})
	}
	result.Errors = append(errs, hookErrs...)

	s.emit(framework.Event{
		Type: framework.EventScanFinish,
		Path: req.Root,
		Metadata: map[string]interface{}{
			"items":      len(result.Items),
			"disabled":   len(result.Disabled),
			"errors":     len(result.Errors),
			"cache_hits": metrics.CacheHits,
			"duration":   metrics.Duration.String(),
		},
	})
	return result
}

// processFile filters, stats and classifies one candidate.
func (s *Scanner) processFile(ctx context.Context, req framework.ScanRequest, f filters, filePath string) (outcome, framework.ScanStatus, time.Duration) {
	name := filepath.Base(filePath)
	rel := relSlash(req.Root, filePath)
	rawExt := framework.NormalizeExt(filepath.Ext(name))
	ext, disabled, effName := framework.EffectiveExtension(name)

	if status, ok := f.admit(name, rawExt, ext, rel); !ok {
		s.emit(framework.Event{Type: framework.EventFileSkipped, Path: rel, Status: string(status)})
		return outcome{}, status, 0
	}

	info, err := os.Stat(filePath)
	if err != nil {
		msg := fmt.Sprintf("stat failed for %s: %v", name, err)
		s.emit(framework.Event{Type: framework.EventFileError, Path: rel, Status: string(framework.StatusError), Message: msg})
		item := &framework.FileItem{
			Path:           filePath,
			Name:           name,
			Ext:            ext,
			RelPath:        rel,
			Classification: s.statFailure(msg),
		}
		return outcome{item: item, err: msg}, framework.StatusError, 0
	}
	if info.IsDir() || !f.inSelection(rel) {
		s.emit(framework.Event{Type: framework.EventFileSkipped, Path: rel, Status: string(framework.StatusFiltered)})
		return outcome{}, framework.StatusFiltered, 0
	}

	status := framework.StatusCached
	var elapsed time.Duration
	key := CacheKey(filePath, rel, info)
	entry, hit := s.lookup(ctx, key)
	dirty := false
	if !hit {
		status = framework.StatusScanned
		began := time.Now()
		entry = Entry{
			Classification: s.classifyFile(filePath, rel, effName, ext, disabled),
			Disabled:       disabled,
			Size:           info.Size(),
			MTime:          info.ModTime().UnixNano(),
		}
		elapsed = time.Since(began)
		dirty = true
	}
	if s.opts.DetectDuplicates && entry.Fingerprint == "" {
		if fp, err := Fingerprint(filePath, info.Size()); err == nil {
			entry.Fingerprint = fp
			dirty = true
		} else {
			s.debugf("fingerprint failed for %s: %v", rel, err)
		}
	}
	if dirty {
		s.store(ctx, key, entry)
	}

	cls := cloneClassification(entry.Classification)
	if req.ExcludeAdult && !disabled && framework.IsAdult(cls.Category) {
		s.emit(framework.Event{Type: framework.EventFileSkipped, Path: rel, Status: string(framework.StatusFiltered), Message: "adult content excluded"})
		return outcome{}, framework.StatusFiltered, elapsed
	}

	item := &framework.FileItem{
		Path:           filePath,
		Name:           name,
		Ext:            ext,
		SizeMB:         framework.HumanMB(info.Size()),
		RelPath:        rel,
		Disabled:       disabled,
		Classification: cls,
	}
	eventType := framework.EventFileScanned
	if status == framework.StatusCached {
		eventType = framework.EventFileCached
	}
	s.emit(framework.Event{Type: eventType, Path: rel, Status: string(status), Message: cls.Category})
	s.debugf("%s -> %s (%.2f) %s", rel, cls.Category, cls.Confidence, cls.Notes)
	return outcome{item: item, fingerprint: entry.Fingerprint}, status, elapsed
}

func (s *Scanner) lookup(ctx context.Context, key string) (Entry, bool) {
	if s.cache == nil {
		return Entry{}, false
	}
	entry, ok, err := s.cache.Lookup(ctx, key)
	if err != nil {
		s.debugf("cache lookup failed: %v", err)
		return Entry{}, false
	}
	return entry, ok
}

func (s *Scanner) store(ctx context.Context, key string, entry Entry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(ctx, key, entry); err != nil {
		s.debugf("cache store failed: %v", err)
	}
}

func (s *Scanner) emit(event framework.Event) {
	framework.Emit(s.opts.Telemetry, event)
}

// cloneClassification copies the slices and maps so later passes can edit
// an item without touching cached entries.
func cloneClassification(c framework.Classification) framework.Classification {
	if c.Tags != nil {
		c.Tags = append([]string(nil), c.Tags...)
	}
	if c.Extras != nil {
		extras := make(map[string]string, len(c.Extras))
		for k, v := range c.Extras {
			extras[k] = v
		}
		c.Extras = extras
	}
	return c
}
