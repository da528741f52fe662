package framework

import (
	"strings"
	"time"
)

// Classification is the verdict produced once by the scanner. Later passes
// never write into it; they use Override instead.
type Classification struct {
	Category     string            `json:"category" yaml:"category"`
	Confidence   float64           `json:"confidence" yaml:"confidence"`
	Notes        string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Tags         []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	TargetFolder string            `json:"target_folder" yaml:"target_folder"`
	Include      bool              `json:"include" yaml:"include"`
	Extras       map[string]string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// Override holds edits made after classification by the bundler, scan hooks
// or the reviewer. Zero values mean "not overridden".
type Override struct {
	Category     string            `json:"category,omitempty" yaml:"category,omitempty"`
	TargetFolder string            `json:"target_folder,omitempty" yaml:"target_folder,omitempty"`
	Include      *bool             `json:"include,omitempty" yaml:"include,omitempty"`
	Bundle       string            `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Notes        []string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	Annotations  map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// FileItem is one scanned file.
type FileItem struct {
	Path     string  `json:"path" yaml:"path"`
	Name     string  `json:"name" yaml:"name"`
	Ext      string  `json:"ext" yaml:"ext"`
	SizeMB   float64 `json:"size_mb" yaml:"size_mb"`
	RelPath  string  `json:"relpath" yaml:"relpath"`
	Disabled bool    `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	Classification Classification `json:"classification" yaml:"classification"`
	Override       Override       `json:"override,omitempty" yaml:"override,omitempty"`
}

// Category returns the overridden category when set.
func (f *FileItem) Category() string {
	if f.Override.Category != "" {
		return f.Override.Category
	}
	return f.Classification.Category
}

// Confidence of the classifier verdict.
func (f *FileItem) Confidence() float64 {
	return f.Classification.Confidence
}

// Target returns the relative folder the item should be moved into.
func (f *FileItem) Target() string {
	if f.Override.TargetFolder != "" {
		return f.Override.TargetFolder
	}
	return f.Classification.TargetFolder
}

// Included reports whether the item takes part in moves.
func (f *FileItem) Included() bool {
	if f.Override.Include != nil {
		return *f.Override.Include
	}
	return f.Classification.Include
}

// SetInclude records a reviewer or plugin include decision.
func (f *FileItem) SetInclude(v bool) {
	f.Override.Include = &v
}

// Bundle returns the bundle key linking this item with a sibling.
func (f *FileItem) Bundle() string {
	return f.Override.Bundle
}

// Notes joins classifier notes with notes added afterwards.
func (f *FileItem) Notes() string {
	parts := make([]string, 0, 1+len(f.Override.Notes))
	if f.Classification.Notes != "" {
		parts = append(parts, f.Classification.Notes)
	}
	parts = append(parts, f.Override.Notes...)
	return strings.Join(parts, "; ")
}

// AddNote appends a note once.
func (f *FileItem) AddNote(note string) {
	if note == "" {
		return
	}
	for _, existing := range f.Override.Notes {
		if existing == note {
			return
		}
	}
	if strings.Contains(f.Classification.Notes, note) {
		return
	}
	f.Override.Notes = append(f.Override.Notes, note)
}

// MetaTags is the comma-joined evidence tag list.
func (f *FileItem) MetaTags() string {
	return strings.Join(f.Classification.Tags, ", ")
}

// Extra returns a classifier extra value.
func (f *FileItem) Extra(key string) string {
	if f.Classification.Extras == nil {
		return ""
	}
	return f.Classification.Extras[key]
}

// Annotate stores a post-scan annotation.
func (f *FileItem) Annotate(key, value string) {
	if f.Override.Annotations == nil {
		f.Override.Annotations = make(map[string]string)
	}
	f.Override.Annotations[key] = value
}

// Annotation returns a post-scan annotation.
func (f *FileItem) Annotation(key string) string {
	if f.Override.Annotations == nil {
		return ""
	}
	return f.Override.Annotations[key]
}

// ScanStatus is reported to progress callbacks for each candidate file.
type ScanStatus string

const (
	StatusFiltered ScanStatus = "filtered"
	StatusIgnored  ScanStatus = "ignored"
	StatusError    ScanStatus = "error"
	StatusScanned  ScanStatus = "scanned"
	StatusCached   ScanStatus = "cached"
)

// ProgressFunc receives (index, total, path, status). index is 1-based.
type ProgressFunc func(index, total int, path string, status ScanStatus)

// MoveLogName is the undo journal kept at the mods root. Scans skip it.
const MoveLogName = ".sims4_modsorter_moves.json"

// ScanRequest is the mutable input handed to pre-scan hooks.
type ScanRequest struct {
	Root            string
	Recurse         bool
	IgnoreExts      []string
	IgnoreNames     []string
	IgnorePatterns  []string
	AllowedExts     []string
	SelectedFolders []string
	ExcludeAdult    bool
}

// ScanMetrics summarises one scan pass.
type ScanMetrics struct {
	FilesScanned int           `json:"files_scanned"`
	CacheHits    int           `json:"cache_hits"`
	Duration     time.Duration `json:"duration"`
	ClassifyTime time.Duration `json:"classify_time"`
}

// AvgMillis is the mean classification time per freshly scanned file.
func (m ScanMetrics) AvgMillis() float64 {
	if m.FilesScanned == 0 {
		return 0
	}
	return float64(m.ClassifyTime.Microseconds()) / 1000 / float64(m.FilesScanned)
}

// HitRate is the share of files served from cache.
func (m ScanMetrics) HitRate() float64 {
	total := m.FilesScanned + m.CacheHits
	if total == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(total)
}

// ScanResult is the ordered output of a scan.
type ScanResult struct {
	Root     string      `json:"root"`
	Items    []*FileItem `json:"items"`
	Disabled []*FileItem `json:"disabled,omitempty"`
	Total    int         `json:"total"`
	Errors   []string    `json:"errors,omitempty"`
	Metrics  ScanMetrics `json:"metrics"`
}

// CategoryCounts tallies effective categories across active items.
func (r *ScanResult) CategoryCounts() map[string]int {
	out := make(map[string]int)
	if r == nil {
		return out
	}
	for _, item := range r.Items {
		out[item.Category()]++
	}
	return out
}
