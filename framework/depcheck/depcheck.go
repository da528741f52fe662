// Package depcheck flags scanned mods whose required frameworks are not
// present in the same scan. It runs as a post-scan hook.
package depcheck

import (
	"context"
	"strings"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/bundle"
)

// HookName is the name the checker registers under.
const HookName = "depcheck"

// Annotation keys written onto matching items.
const (
	StatusKey = "dependency_status"
	DetailKey = "dependency_detail"

	StatusOK      = "ok"
	StatusMissing = "missing"
)

// Requirement names another rule (or a bare key) that must be installed.
type Requirement struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Rule describes one known mod. Rules without requirements exist so other
// rules can refer to them by key.
type Rule struct {
	Key      string        `yaml:"key" json:"key"`
	Label    string        `yaml:"label,omitempty" json:"label,omitempty"`
	Aliases  []string      `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Requires []Requirement `yaml:"requires,omitempty" json:"requires,omitempty"`
}

// DefaultRules covers the popular script frameworks and the mods that need
// them.
func DefaultRules() []Rule {
	return []Rule{
		{Key: "ui_cheats_extension", Label: "UI Cheats Extension", Aliases: []string{"ui cheats", "uicheats"},
			Requires: []Requirement{{Key: "mc_command_center"}, {Key: "ts4_script_loader"}}},
		{Key: "wickedwhims", Label: "WickedWhims", Aliases: []string{"wicked whims", "turbodriver"},
			Requires: []Requirement{{Key: "basemental_drugs"}}},
		{Key: "better_school_grades", Label: "Better School Grades",
			Requires: []Requirement{{Key: "xml_injector"}}},
		{Key: "slice_of_life", Label: "Slice of Life", Aliases: []string{"kawaiistacie slice"},
			Requires: []Requirement{{Key: "xml_injector"}}},
		{Key: "mc_command_center", Label: "MC Command Center", Aliases: []string{"mccc", "deaderpool"}},
		{Key: "xml_injector", Label: "XML Injector"},
		{Key: "basemental_drugs", Label: "Basemental Drugs"},
		{Key: "ts4_script_loader", Label: "TS4 Script Loader"},
	}
}

// Checker matches items against a rule set.
type Checker struct {
	rules    []Rule
	patterns map[string][]string // rule key -> normalized patterns
	labels   map[string]string
}

// New prepares a checker. Rules with an empty key are dropped.
func New(rules []Rule) *Checker {
	c := &Checker{patterns: map[string][]string{}, labels: map[string]string{}}
	for _, r := range rules {
		key := bundle.NormalizeName(r.Key)
		if key == "" {
			continue
		}
		c.rules = append(c.rules, r)
		pats := []string{key}
		for _, alias := range r.Aliases {
			if a := bundle.NormalizeName(alias); a != "" {
				pats = append(pats, a)
			}
		}
		c.patterns[key] = append(c.patterns[key], pats...)
		if r.Label != "" {
			c.labels[key] = r.Label
		} else if _, ok := c.labels[key]; !ok {
			c.labels[key] = r.Key
		}
	}
	return c
}

func (c *Checker) matches(blob string, key string) bool {
	pats, ok := c.patterns[key]
	if !ok {
		pats = []string{key}
	}
	for _, p := range pats {
		if strings.Contains(blob, p) {
			return true
		}
	}
	return false
}

func (c *Checker) label(req Requirement) string {
	if req.Label != "" {
		return req.Label
	}
	if l, ok := c.labels[bundle.NormalizeName(req.Key)]; ok {
		return l
	}
	return req.Key
}

// Check annotates every item that matches a rule with requirements and
// returns how many are missing at least one requirement. Disabled items do
// not satisfy requirements.
func (c *Checker) Check(items []*framework.FileItem) int {
	blobs := make([]string, len(items))
	for i, item := range items {
		blobs[i] = bundle.NormalizeKey(item.Name)
	}
	installed := func(key string, self int) bool {
		for i, blob := range blobs {
			if i != self && !items[i].Disabled && c.matches(blob, key) {
				return true
			}
		}
		return false
	}

	missingItems := 0
	for i, item := range items {
		var present, absent []string
		for _, r := range c.rules {
			if len(r.Requires) == 0 || !c.matches(blobs[i], bundle.NormalizeName(r.Key)) {
				continue
			}
			for _, req := range r.Requires {
				if installed(bundle.NormalizeName(req.Key), i) {
					present = appendOnce(present, c.label(req))
				} else {
					absent = appendOnce(absent, c.label(req))
				}
			}
		}
		switch {
		case len(absent) > 0:
			item.Annotate(StatusKey, StatusMissing)
			item.Annotate(DetailKey, "Missing: "+strings.Join(absent, ", "))
			item.AddNote("Missing dependency: " + strings.Join(absent, ", "))
			missingItems++
		case len(present) > 0:
			item.Annotate(StatusKey, StatusOK)
			item.Annotate(DetailKey, "Requires: "+strings.Join(present, ", "))
		}
	}
	return missingItems
}

func appendOnce(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// Register installs the checker as a post-scan hook.
func Register(h *framework.Hooks, rules []Rule) {
	if h == nil {
		return
	}
	c := New(rules)
	h.OnPostScan(HookName, func(ctx context.Context, _ framework.ScanRequest, result *framework.ScanResult) error {
		if ctx.Err() != nil {
			return nil
		}
		c.Check(result.Items)
		return nil
	})
}
