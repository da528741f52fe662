package classify

import (
	"sort"
	"strings"
)

// Thresholds are the tuning knobs for adult promotion and demotion.
type Thresholds struct {
	// Confident promotes on score alone.
	Confident float64 `yaml:"confident" json:"confident"`
	// Corroborated promotes when at least one keyword also matched.
	Corroborated float64 `yaml:"corroborated" json:"corroborated"`
	// DemoteBelow strips an adult label when no deep hits were found and the
	// score stayed under this value.
	DemoteBelow float64 `yaml:"demote_below" json:"demote_below"`
}

// DefaultThresholds returns 0.75 / 0.5 / 0.35.
func DefaultThresholds() Thresholds {
	return Thresholds{Confident: 0.75, Corroborated: 0.5, DemoteBelow: 0.35}
}

// Weights are the evidence increments per signal.
type Weights struct {
	Filename       float64 `yaml:"filename" json:"filename"`
	Folder         float64 `yaml:"folder" json:"folder"`
	FolderHint     float64 `yaml:"folder_hint" json:"folder_hint"`
	ScriptContent  float64 `yaml:"script_content" json:"script_content"`
	PackageContent float64 `yaml:"package_content" json:"package_content"`
	ArchiveContent float64 `yaml:"archive_content" json:"archive_content"`
	TextContent    float64 `yaml:"text_content" json:"text_content"`
	Author         float64 `yaml:"author" json:"author"`
}

// DefaultWeights returns the stock increments.
func DefaultWeights() Weights {
	return Weights{
		Filename:       0.25,
		Folder:         0.20,
		FolderHint:     0.10,
		ScriptContent:  0.30,
		PackageContent: 0.35,
		ArchiveContent: 0.40,
		TextContent:    0.25,
		Author:         0.20,
	}
}

// Evidence accumulates adult-content signals for one file.
type Evidence struct {
	Score   float64
	hits    map[string]struct{}
	deep    map[string]struct{}
	Reasons []string

	thresholds Thresholds
}

// NewEvidence returns an empty accumulator judged against t.
func NewEvidence(t Thresholds) *Evidence {
	return &Evidence{
		hits:       map[string]struct{}{},
		deep:       map[string]struct{}{},
		thresholds: t,
	}
}

// Add records hits and moves the score by delta, clamped into [0,1]. An
// empty reason adds no reason line.
func (e *Evidence) Add(hits []string, delta float64, reason string) {
	for _, h := range hits {
		if h != "" {
			e.hits[h] = struct{}{}
		}
	}
	e.Score += delta
	if e.Score > 1 {
		e.Score = 1
	}
	if e.Score < 0 {
		e.Score = 0
	}
	if reason != "" {
		e.Reasons = append(e.Reasons, reason)
	}
}

// AddDeep is Add for hits that came from inspecting file content.
func (e *Evidence) AddDeep(hits []string, delta float64, reason string) {
	for _, h := range hits {
		if h != "" {
			e.deep[h] = struct{}{}
		}
	}
	e.Add(hits, delta, reason)
}

// Hits returns the matched keywords in sorted order.
func (e *Evidence) Hits() []string {
	return sortedKeys(e.hits)
}

// DeepHits returns keywords found by content inspection.
func (e *Evidence) DeepHits() []string {
	return sortedKeys(e.deep)
}

// IsConfident applies the dual threshold.
func (e *Evidence) IsConfident() bool {
	if e.Score >= e.thresholds.Confident {
		return true
	}
	return e.Score >= e.thresholds.Corroborated && len(e.hits) > 0
}

// Note renders the evidence for display, or "" when there is nothing to say.
func (e *Evidence) Note() string {
	if len(e.hits) == 0 && len(e.Reasons) == 0 {
		return ""
	}
	var parts []string
	if len(e.hits) > 0 {
		parts = append(parts, "keywords: "+strings.Join(e.Hits(), ", "))
	}
	if len(e.Reasons) > 0 {
		parts = append(parts, strings.Join(e.Reasons, "; "))
	}
	return "Adult evidence - " + strings.Join(parts, " | ")
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
