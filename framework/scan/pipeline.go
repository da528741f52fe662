package scan

import (
	"path"
	"strings"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/classify"
	"github.com/lexcodex/modsorter/framework/dbpf"
	"github.com/lexcodex/modsorter/framework/tokens"
)

// classifyFile runs the full per-file pipeline: filename guess, container
// index, script check, content sampling, then adult evidence.
func (s *Scanner) classifyFile(filePath, rel, effName, ext string, disabled bool) framework.Classification {
	c := s.classifier
	adultHint := c.Vocab.AdultHint(tokens.Tokenize(effName))
	result := c.GuessFromName(effName, ext)

	switch {
	case framework.PackageExts[ext]:
		merged := classify.Merge(result, classify.ClassifyFromTypes(dbpf.ScanTypes(filePath), effName, adultHint))
		if len(merged.Tags) == 0 {
			merged.Tags = result.Tags
		}
		result = merged
	case framework.ScriptExts[ext]:
		checked, err := classify.CheckScript(filePath, adultHint)
		if err != nil {
			result = result.AppendNote("Zip read error: " + err.Error())
		} else {
			checked.Tags = result.Tags
			result = checked
		}
	case ext == ".zip":
		result = result.AppendNote(classify.SummarizeArchive(filePath, s.opts.SummaryEntries))
	}

	dir := path.Dir(rel)
	ev := c.Inspect(classify.Signals{
		Name:         effName,
		RelPath:      rel,
		RelDir:       dir,
		FolderTokens: tokens.TokenizePath(dir),
		Content:      s.sampler.Sample(filePath, ext),
	})
	result = c.ApplyEvidence(result, ev)

	hits := ev.Hits()
	tags := append([]string(nil), result.Tags...)
	for _, hit := range hits {
		if !containsString(tags, hit) {
			tags = append(tags, hit)
		}
	}

	extras := map[string]string{}
	if len(hits) > 0 {
		extras["adult_keywords"] = strings.Join(hits, ", ")
	}
	if note := ev.Note(); note != "" && (len(hits) > 0 || ev.IsConfident()) {
		extras["adult_note"] = note
	}
	notes := result.Notes
	if disabled {
		extras["disabled"] = "extension renamed"
		notes = joinNote(notes, "Disabled extension")
	}
	if len(extras) == 0 {
		extras = nil
	}

	return framework.Classification{
		Category:     result.Category,
		Confidence:   result.Confidence,
		Notes:        notes,
		Tags:         tags,
		TargetFolder: s.router.Route(result.Category),
		Include:      !disabled,
		Extras:       extras,
	}
}

// statFailure is the record emitted for a file that vanished or cannot be
// stat'ed between listing and classification.
func (s *Scanner) statFailure(message string) framework.Classification {
	return framework.Classification{
		Category:     framework.CategoryUnknown,
		Notes:        message,
		TargetFolder: s.router.Route(framework.CategoryUnknown),
		Include:      false,
	}
}

func joinNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "; " + note
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
