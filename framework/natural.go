package framework

import (
	"path"
	"sort"
	"strings"
)

// NaturalLess compares two strings case-insensitively, treating runs of
// digits as integers so "item2" sorts before "item10".
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// NaturalCompare returns a negative, zero or positive result like strings.Compare.
func NaturalCompare(a, b string) int {
	ca, cb := naturalChunks(strings.ToLower(a)), naturalChunks(strings.ToLower(b))
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		switch {
		case x.numeric && y.numeric:
			if c := compareDigits(x.text, y.text); c != 0 {
				return c
			}
		case x.numeric != y.numeric:
			// ints sort before text at the same position
			if x.numeric {
				return -1
			}
			return 1
		default:
			if c := strings.Compare(x.text, y.text); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	}
	return 0
}

type naturalChunk struct {
	text    string
	numeric bool
}

func naturalChunks(s string) []naturalChunk {
	var out []naturalChunk
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[start]) {
			if start < i {
				out = append(out, naturalChunk{text: s[start:i], numeric: isDigit(s[start])})
			}
			start = i
		}
	}
	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func compareDigits(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	// equal values: fewer leading zeros first
	return len(a) - len(b)
}

// relDir is dirname(relpath) or "." at the scan root.
func relDir(relpath string) string {
	dir := path.Dir(strings.ReplaceAll(relpath, "\\", "/"))
	if dir == "" {
		return "."
	}
	return dir
}

// SortItems orders items by category precedence, then parent folder, then
// name, both under natural comparison.
func SortItems(items []*FileItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ai, bi := CategoryIndex(a.Category()), CategoryIndex(b.Category()); ai != bi {
			return ai < bi
		}
		if c := NaturalCompare(relDir(a.RelPath), relDir(b.RelPath)); c != 0 {
			return c < 0
		}
		return NaturalCompare(a.Name, b.Name) < 0
	})
}

// SortDisabled orders disabled items by parent folder then name.
func SortDisabled(items []*FileItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := NaturalCompare(relDir(a.RelPath), relDir(b.RelPath)); c != 0 {
			return c < 0
		}
		return NaturalCompare(a.Name, b.Name) < 0
	})
}
