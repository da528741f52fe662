// Package tokens splits mod filenames into lowercase words and matches them
// against ordered keyword rules.
package tokens

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	extRe      = regexp.MustCompile(`\.[^.]+$`)
	sepRe      = regexp.MustCompile(`[_\-]+`)
	nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// Tokenize lowercases name into words split on separators, camel-case humps
// and letter/digit changes, then appends the compacted alphanumeric form
// when it differs from every word. The extension is dropped first.
//
//	Tokenize("WickedWhims_Nude_V2.package")
//	// [wicked whims nude v 2 wickedwhimsnudev2]
func Tokenize(name string) []string {
	raw := extRe.ReplaceAllString(name, "")
	base := splitCamel(raw)
	base = sepRe.ReplaceAllString(base, " ")
	base = nonAlnumRe.ReplaceAllString(base, " ")
	fields := strings.Fields(base)
	out := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	compact := strings.ToLower(nonAlnumRe.ReplaceAllString(raw, ""))
	if compact != "" && !contains(out, compact) {
		out = append(out, compact)
	}
	return out
}

// TokenizePath tokenizes each component of a relative directory path.
func TokenizePath(rel string) []string {
	rel = filepath.ToSlash(rel)
	var out []string
	for _, part := range strings.Split(rel, "/") {
		if part == "" || part == "." {
			continue
		}
		out = append(out, Tokenize(part)...)
	}
	return out
}

// Joined wraps the token stream in spaces for phrase matching.
func Joined(tokens []string) string {
	return " " + strings.Join(tokens, " ") + " "
}

// Set returns the distinct tokens.
func Set(tokens []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		out[t] = struct{}{}
	}
	return out
}

func splitCamel(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if i > 0 && camelBoundary(s, i) {
			b.WriteByte(' ')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// camelBoundary reports whether a word break falls between s[i-1] and s[i].
func camelBoundary(s string, i int) bool {
	prev, cur := s[i-1], s[i]
	switch {
	case isLetter(prev) && isUpper(cur) && i+1 < len(s) && isLower(s[i+1]):
		return true
	case (isLower(prev) || isDigit(prev)) && isUpper(cur):
		return true
	case isLetter(prev) && isDigit(cur):
		return true
	case isDigit(prev) && isLetter(cur):
		return true
	}
	return false
}

func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return isUpper(c) || isLower(c) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
