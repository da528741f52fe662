package classify

import (
	"fmt"
	"strings"

	"github.com/lexcodex/modsorter/framework/tokens"
)

// ContentKind identifies which sampler produced a finding.
type ContentKind string

const (
	ContentPackage ContentKind = "package"
	ContentScript  ContentKind = "script"
	ContentArchive ContentKind = "archive"
	ContentText    ContentKind = "text"
)

// Finding is vocabulary found inside a file's bytes.
type Finding struct {
	Kind   ContentKind
	Hits   []string
	Reason string
}

// Signals gathers everything known about one file before evidence is
// weighed.
type Signals struct {
	Name         string // effective filename, disabled suffix stripped
	RelPath      string
	RelDir       string
	FolderTokens []string
	Content      []Finding
}

func (w Weights) content(kind ContentKind) float64 {
	switch kind {
	case ContentPackage:
		return w.PackageContent
	case ContentScript:
		return w.ScriptContent
	case ContentArchive:
		return w.ArchiveContent
	case ContentText:
		return w.TextContent
	}
	return 0
}

// minHintLen keeps short words like "dd" from matching arbitrary folder
// names by substring.
const minHintLen = 4

// Inspect weighs the filename, folder, author and content signals.
func (c *Classifier) Inspect(s Signals) *Evidence {
	ev := NewEvidence(c.Thresholds)

	if hits := c.Vocab.TokenHits(tokens.Tokenize(s.Name)); len(hits) > 0 {
		ev.Add(hits, c.Weights.Filename, "filename keywords")
	}

	folderHits := c.Vocab.TokenHits(s.FolderTokens)
	if len(folderHits) > 0 {
		ev.Add(folderHits, c.Weights.Folder, "folder keywords")
	} else if s.RelDir != "" && s.RelDir != "." {
		var hint []string
		for _, w := range c.Vocab.SubstringHits(strings.ToLower(s.RelDir)) {
			if len(w) >= minHintLen && !strings.Contains(w, " ") {
				hint = append(hint, w)
			}
		}
		if len(hint) > 0 {
			ev.Add(hint, c.Weights.FolderHint, "folder name hint")
		}
	}

	if authors := c.Vocab.AuthorHits(s.RelPath, s.Name, strings.Join(s.FolderTokens, "")); len(authors) > 0 {
		ev.Add(authors, c.Weights.Author, fmt.Sprintf("known adult author (%s)", strings.Join(authors, ", ")))
	}

	for _, f := range s.Content {
		if len(f.Hits) == 0 {
			continue
		}
		ev.AddDeep(f.Hits, c.Weights.content(f.Kind), f.Reason)
	}
	return ev
}
