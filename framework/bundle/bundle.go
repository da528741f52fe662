// Package bundle pairs script mods with the package files that ship
// alongside them so both land in the same folder.
package bundle

import (
	"regexp"
	"strings"

	"github.com/lexcodex/modsorter/framework"
)

var (
	bracketRe   = regexp.MustCompile(`\[[^\]]+\]`)
	separatorRe = regexp.MustCompile(`[_\-\s]+`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeKey reduces a filename to the key used for pairing, e.g.
// "[Author] Cool_Mod-v2.ts4script" becomes "coolmodv2".
func NormalizeKey(name string) string {
	return NormalizeName(framework.StripExt(name))
}

// NormalizeName is NormalizeKey for text without an extension.
func NormalizeName(s string) string {
	key := strings.ToLower(s)
	key = bracketRe.ReplaceAllString(key, "")
	key = separatorRe.ReplaceAllString(key, "")
	return nonAlnumRe.ReplaceAllString(key, "")
}

// Stats reports what a bundling pass did.
type Stats struct {
	Linked  int
	Scripts int
}

const pairedNote = "paired with script"

func isScript(item *framework.FileItem) bool {
	if item.Disabled || !framework.ScriptExts[item.Ext] {
		return false
	}
	switch item.Category() {
	case framework.CategoryScriptMod, framework.CategoryAdultScript:
		return true
	}
	return false
}

// Bundle links each package to the script mod with the same key. The
// package follows the script's folder unless it already has an override
// route.
func Bundle(items []*framework.FileItem) Stats {
	var stats Stats
	scripts := map[string]*framework.FileItem{}
	for _, item := range items {
		if !isScript(item) {
			continue
		}
		key := NormalizeKey(item.Name)
		if key == "" {
			continue
		}
		if _, dup := scripts[key]; !dup {
			scripts[key] = item
		}
		stats.Scripts++
	}
	if len(scripts) == 0 {
		return stats
	}
	for _, item := range items {
		if item.Disabled || !framework.PackageExts[item.Ext] {
			continue
		}
		key := NormalizeKey(item.Name)
		script, ok := scripts[key]
		if !ok {
			continue
		}
		script.Override.Bundle = key
		item.Override.Bundle = key
		if item.Override.TargetFolder == "" {
			item.Override.TargetFolder = script.Target()
		}
		item.AddNote(pairedNote)
		stats.Linked++
	}
	return stats
}
