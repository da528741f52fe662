package framework

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// Extension sets recognised by the pipeline.
var (
	PackageExts  = map[string]bool{".package": true}
	ScriptExts   = map[string]bool{".ts4script": true, ".t4script": true}
	ArchiveExts  = map[string]bool{".zip": true, ".rar": true, ".7z": true}
	TextExts     = map[string]bool{".txt": true, ".cfg": true, ".ini": true, ".log": true, ".rtf": true}
	disabledExts = map[string]bool{".off": true, ".disabled": true, ".bak": true}
)

// NormalizeExt lowercases ext and guarantees a leading dot. Blank input
// returns "".
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// EffectiveExtension resolves the extension a file is classified under and
// whether it was disabled by renaming. Both "mod.package.off" and the legacy
// "mod.packageoff" forms are understood. effectiveName is the filename with
// the disabling marker removed.
func EffectiveExtension(name string) (ext string, disabled bool, effectiveName string) {
	last := strings.ToLower(filepath.Ext(name))
	if last == "" {
		return "", false, name
	}
	stem := name[:len(name)-len(last)]
	if disabledExts[last] {
		if inner := strings.ToLower(filepath.Ext(stem)); inner != "" {
			return inner, true, stem
		}
	}
	if strings.HasSuffix(last, "off") && len(last) > 4 {
		return last[:len(last)-3], true, name[:len(name)-3]
	}
	return last, false, name
}

var (
	extRe      = regexp.MustCompile(`\.[^.]+$`)
	sepRe      = regexp.MustCompile(`[_\-]+`)
	spaceRunRe = regexp.MustCompile(`\s+`)
)

// StripExt removes the final extension from a filename.
func StripExt(name string) string {
	return extRe.ReplaceAllString(name, "")
}

// PrettyDisplayName turns "cool_hair-V2.package" into "Cool Hair V2".
func PrettyDisplayName(filename string) string {
	base := sepRe.ReplaceAllString(StripExt(filename), " ")
	base = strings.TrimSpace(spaceRunRe.ReplaceAllString(base, " "))
	if base == "" {
		return ""
	}
	parts := strings.Split(base, " ")
	for i, part := range parts {
		// only the first letter changes, so "WickedWhims" keeps its casing
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

// HumanMB converts a byte count to MiB rounded to two decimals.
func HumanMB(n int64) float64 {
	mb := float64(n) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}
