// Package classify turns filename, container-index and content signals into
// a category, confidence and rationale for one mod file.
package classify

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strings"
)

// DefaultAdultWords is the built-in adult vocabulary.
var DefaultAdultWords = []string{
	"wickedwhims", "turbodriver", "basemental", "nisa", "wild_guy", "wildguy",
	"nsfw", "porn", "sex", "sexual", "kinky", "nude", "naked", "strip", "lapdance",
	"prostitution", "genital", "penis", "vagina", "condom", "condoms", "sheath",
	"dildo", "vibrator", "plug", "buttplug", "cum", "orgasm", "bdsm", "fetish",
	"bondage", "dominatrix", "orgy", "hentai", "lewd", "xxx", "xrated", "x-rated",
	"taboo", "sensual", "seduce", "seduction", "sultry", "provocative", "lingerie",
	"nipple", "areola", "sperm", "spermicide", "lubricant", "aphrodisiac", "escort",
	"brothel", "stripclub", "swinger", "swingers", "kamasutra", "playboy", "onlyfans",
	"camboy", "camgirl", "cammodel", "camshow", "latex", "polyurethane", "polyisoprene",
	"birthcontrol", "durex", "trojan", "std", "sti", "petplay", "pet play", "nudity",
	"desires", "deviantcore", "deviant core", "deviant", "devious", "deviousdesires",
	"devious desires", "dd", "kink", "flirtyfetishes", "flirty fetishes", "fetishes",
	"ww", "gay", "pubichair", "pubic hair", "pubic", "watersports", "water sports",
}

// DefaultAdultAuthors lists creators whose uploads are adult content.
var DefaultAdultAuthors = []string{
	"onizu", "amozidan22", "oll", "nisak", "cherrypie", "!chingyu", "chingyu",
	"turbodriver", "khlas", "lychee", "alchemist", "falsehope",
}

var authorNormalizeRe = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeAuthor lowercases value and drops everything but [a-z0-9].
func NormalizeAuthor(value string) string {
	return authorNormalizeRe.ReplaceAllString(strings.ToLower(value), "")
}

// Vocabulary is the immutable adult word list plus author aliases. Build it
// once with NewVocabulary and share it between goroutines.
type Vocabulary struct {
	words   map[string]struct{}
	ordered []string // longest first
	maxLen  int
	authors map[string]string // normalized alias -> display name
	aliases []string          // sorted keys of authors
}

// NewVocabulary builds a vocabulary from words and authors. Entries are
// trimmed and lowercased; blanks are skipped.
func NewVocabulary(words, authors []string) *Vocabulary {
	v := &Vocabulary{
		words:   make(map[string]struct{}, len(words)),
		authors: make(map[string]string, len(authors)),
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		v.words[w] = struct{}{}
	}
	v.ordered = make([]string, 0, len(v.words))
	for w := range v.words {
		v.ordered = append(v.ordered, w)
		if len(w) > v.maxLen {
			v.maxLen = len(w)
		}
	}
	sort.Slice(v.ordered, func(i, j int) bool {
		if len(v.ordered[i]) != len(v.ordered[j]) {
			return len(v.ordered[i]) > len(v.ordered[j])
		}
		return v.ordered[i] < v.ordered[j]
	})
	for _, name := range authors {
		if alias := NormalizeAuthor(name); alias != "" {
			if _, seen := v.authors[alias]; !seen {
				v.authors[alias] = name
			}
		}
	}
	v.aliases = make([]string, 0, len(v.authors))
	for alias := range v.authors {
		v.aliases = append(v.aliases, alias)
	}
	sort.Strings(v.aliases)
	return v
}

// DefaultVocabulary uses the built-in lists only.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(DefaultAdultWords, DefaultAdultAuthors)
}

// Contains reports whether word is in the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.words[word]
	return ok
}

// Words returns the vocabulary ordered longest first.
func (v *Vocabulary) Words() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.ordered...)
}

// MaxWordLen is the length of the longest word.
func (v *Vocabulary) MaxWordLen() int {
	if v == nil {
		return 0
	}
	return v.maxLen
}

// Len is the number of distinct words.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.words)
}

// TokenHits returns the tokens that are vocabulary words.
func (v *Vocabulary) TokenHits(tokens []string) []string {
	var hits []string
	seen := map[string]bool{}
	for _, t := range tokens {
		if v.Contains(t) && !seen[t] {
			seen[t] = true
			hits = append(hits, t)
		}
	}
	sort.Strings(hits)
	return hits
}

// AdultHint reports whether any token is a vocabulary word.
func (v *Vocabulary) AdultHint(tokens []string) bool {
	for _, t := range tokens {
		if v.Contains(t) {
			return true
		}
	}
	return false
}

// SubstringHits returns every word that occurs inside text, which must
// already be lowercase.
func (v *Vocabulary) SubstringHits(text string) []string {
	if v == nil || text == "" {
		return nil
	}
	var hits []string
	for _, w := range v.ordered {
		if strings.Contains(text, w) {
			hits = append(hits, w)
		}
	}
	return hits
}

// AuthorHits returns display names of known authors whose normalized alias
// occurs in any of sources.
func (v *Vocabulary) AuthorHits(sources ...string) []string {
	if v == nil {
		return nil
	}
	found := map[string]bool{}
	for _, src := range sources {
		norm := NormalizeAuthor(src)
		if norm == "" {
			continue
		}
		for _, alias := range v.aliases {
			if strings.Contains(norm, alias) {
				found[v.authors[alias]] = true
			}
		}
	}
	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadWordsOverride reads extra vocabulary words from a JSON file holding
// either {"words": [...]} or a bare array. A missing or malformed file
// yields nil.
func LoadWordsOverride(path string) []string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	var list []interface{}
	switch v := raw.(type) {
	case map[string]interface{}:
		list, _ = v["words"].([]interface{})
	case []interface{}:
		list = v
	}
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
