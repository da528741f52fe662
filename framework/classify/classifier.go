package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/dbpf"
	"github.com/lexcodex/modsorter/framework/tokens"
)

// Result is a category verdict with its rationale.
type Result struct {
	Category   string
	Confidence float64
	Notes      string
	Tags       []string
}

// AppendNote adds note to the result notes with a "; " separator.
func (r Result) AppendNote(note string) Result {
	r.Notes = joinNotes(r.Notes, note)
	return r
}

func joinNotes(a, b string) string {
	switch {
	case b == "":
		return a
	case a == "":
		return b
	}
	return a + "; " + b
}

// Classifier holds the immutable tables used to classify files.
type Classifier struct {
	Vocab      *Vocabulary
	Rules      tokens.Rules
	Thresholds Thresholds
	Weights    Weights
}

// New returns a classifier over the given tables. Nil or empty inputs fall
// back to the built-in defaults.
func New(vocab *Vocabulary, rules tokens.Rules, thresholds Thresholds, weights Weights) *Classifier {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if len(rules) == 0 {
		rules = tokens.DefaultRules()
	}
	return &Classifier{Vocab: vocab, Rules: rules, Thresholds: thresholds, Weights: weights}
}

// Default returns a classifier using only built-in tables.
func Default() *Classifier {
	return New(nil, nil, DefaultThresholds(), DefaultWeights())
}

var scriptHints = map[string]bool{"script": true, "ts4script": true, "py": true, "python": true}

// GuessFromName derives a first verdict from the filename and extension.
func (c *Classifier) GuessFromName(name, ext string) Result {
	toks := tokens.Tokenize(name)
	adult := c.Vocab.AdultHint(toks)
	tags := sortedUnique(toks)
	pick := func(base, adultCat string) string {
		if adult {
			return adultCat
		}
		return base
	}

	scriptLike := framework.ScriptExts[ext]
	for _, t := range toks {
		if scriptHints[t] {
			scriptLike = true
			break
		}
	}
	switch {
	case scriptLike:
		return Result{pick(framework.CategoryScriptMod, framework.CategoryAdultScript), 0.9, "Script-like extension", tags}
	case framework.ArchiveExts[ext]:
		return Result{pick(framework.CategoryArchive, framework.CategoryAdultOther), 0.6, "Archive container", tags}
	case framework.PackageExts[ext]:
		if rule, ok := c.Rules.Match(toks); ok {
			category := rule.Category
			if adult {
				category = framework.PromoteAdult(category)
			}
			return Result{category, 0.7, fmt.Sprintf("Keyword '%s'", rule.Keyword), tags}
		}
		return Result{pick(framework.CategoryOther, framework.CategoryAdultOther), 0.4, "Package (no keyword match)", tags}
	case framework.TextExts[ext]:
		return Result{pick(framework.CategoryUtilityTool, framework.CategoryAdultOther), 0.4, "Utility/config file", tags}
	case adult:
		return Result{framework.CategoryAdultOther, 0.5, "Adult keyword", tags}
	}
	return Result{framework.CategoryUnknown, 0.3, "Unrecognised extension", tags}
}

var casSubtypes = []struct {
	category string
	keys     []string
}{
	{framework.CategoryCASHair, []string{"hair", "ponytail", "bun", "brow", "lash"}},
	{framework.CategoryCASMakeup, []string{"lip", "liner", "blush", "makeup"}},
	{framework.CategoryCASSkin, []string{"skin", "overlay", "tattoo", "freckle"}},
	{framework.CategoryCASEyes, []string{"eye", "iris"}},
	{framework.CategoryCASAccessories, []string{"ring", "necklace", "ear", "nail", "piercing", "tail"}},
}

// ClassifyFromTypes maps a container type index onto a category. The first
// structural rule that applies wins.
func ClassifyFromTypes(types dbpf.TypeIndex, filename string, adultHint bool) Result {
	pick := func(base, adultCat string) string {
		if adultHint {
			return adultCat
		}
		return base
	}
	if len(types) == 0 {
		return Result{pick(framework.CategoryUnknown, framework.CategoryAdultOther), 0.5, "No DBPF index", nil}
	}
	notes := "Types: " + types.Summary()
	tags := types.Names()
	if types.Has(dbpf.TypeCASP) {
		if adultHint {
			return Result{framework.CategoryAdultCAS, 0.9, notes, tags}
		}
		lower := strings.ToLower(framework.StripExt(filename))
		for _, sub := range casSubtypes {
			for _, key := range sub.keys {
				if strings.Contains(lower, key) {
					return Result{sub.category, 0.85, notes, tags}
				}
			}
		}
		return Result{framework.CategoryCASClothing, 0.8, notes, tags}
	}
	switch {
	case types.HasAny(dbpf.TypeOBJD, dbpf.TypeGEOM, dbpf.TypeMODL, dbpf.TypeMLOD):
		return Result{pick(framework.CategoryBuildBuyObject, framework.CategoryAdultBuildBuy), 0.85, notes, tags}
	case types.Has(dbpf.TypeTONE):
		return Result{pick(framework.CategoryCASSkin, framework.CategoryAdultCAS), 0.85, notes, tags}
	case types.Has(dbpf.TypeJAZZ):
		return Result{pick(framework.CategoryAnimation, framework.CategoryAdultAnimation), 0.85, notes, tags}
	case types.Has(dbpf.TypeSTBL):
		return Result{pick(framework.CategoryGameplayTuning, framework.CategoryAdultGameplay), 0.75, notes, tags}
	}
	return Result{pick(framework.CategoryOther, framework.CategoryAdultOther), 0.6, notes, tags}
}

// Merge combines the filename verdict with the container verdict. Ties go
// to the container; a losing container still contributes its notes.
func Merge(name, container Result) Result {
	if container.Confidence >= name.Confidence {
		return container
	}
	merged := name.AppendNote(container.Notes)
	if len(merged.Tags) == 0 {
		merged.Tags = container.Tags
	}
	return merged
}

// ApplyEvidence promotes or demotes r according to ev.
func (c *Classifier) ApplyEvidence(r Result, ev *Evidence) Result {
	note := ev.Note()
	hits := ev.Hits()
	switch {
	case ev.IsConfident():
		r.Category = framework.PromoteAdult(r.Category)
		if boosted := minFloat(1, 0.5+ev.Score/2); boosted > r.Confidence {
			r.Confidence = boosted
		}
		return r.AppendNote(note)
	case framework.IsAdult(r.Category) && len(ev.DeepHits()) == 0 && ev.Score < c.Thresholds.DemoteBelow:
		r.Category = framework.DemoteAdult(r.Category)
		return r.AppendNote("Adult deep scan found no explicit keywords")
	case len(hits) > 0:
		return r.AppendNote(note)
	}
	return r
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
