package framework

import (
	"path/filepath"
	"regexp"
	"strings"
)

const globMatchAll = "**"

// MatchGlob supports both filepath.Match and the '**' recursive glob pattern.
// Matching is case-insensitive because mod folders come from Windows users.
func MatchGlob(pattern, value string) bool {
	if pattern == "" {
		return false
	}
	if pattern == globMatchAll {
		return true
	}
	pattern = strings.ToLower(filepath.ToSlash(pattern))
	value = strings.ToLower(filepath.ToSlash(value))
	if !strings.Contains(pattern, "**") {
		ok, err := filepath.Match(pattern, value)
		if err != nil {
			return false
		}
		if ok {
			return true
		}
		// a bare name pattern also matches the basename
		if !strings.Contains(pattern, "/") {
			ok, _ = filepath.Match(pattern, filepath.Base(value))
		}
		return ok
	}
	regex, err := regexp.Compile(globToRegex(pattern))
	if err != nil {
		return false
	}
	return regex.MatchString(value)
}

// MatchAnyGlob reports whether value matches one of patterns.
func MatchAnyGlob(patterns []string, value string) bool {
	for _, p := range patterns {
		if MatchGlob(p, value) {
			return true
		}
	}
	return false
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch ch {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				i++
				// "**/" also matches zero directories
				if i+1 < len(runes) && runes[i+1] == '/' {
					i++
					b.WriteString("(?:.*/)?")
				} else {
					b.WriteString(".*")
				}
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '.', '+', '(', ')', '|', '^', '$', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
			b.WriteRune(ch)
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteString("$")
	return b.String()
}
