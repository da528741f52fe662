package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lexcodex/modsorter/framework"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{".modsorter": true, ".git": true}

// listCandidates returns every regular or symlinked file below root in
// lexical order. Directories that cannot be read are reported and skipped.
func listCandidates(root string, recurse bool) ([]string, []string) {
	var files []string
	var problems []string
	if !recurse {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, []string{fmt.Sprintf("read failed for %s: %v", root, err)}
		}
		for _, e := range entries {
			if e.IsDir() || e.Name() == framework.MoveLogName {
				continue
			}
			files = append(files, filepath.Join(root, e.Name()))
		}
		return files, nil
	}
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p != root {
				problems = append(problems, fmt.Sprintf("read failed for %s: %v", relSlash(root, p), err))
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != root && skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == framework.MoveLogName {
			return nil
		}
		files = append(files, p)
		return nil
	})
	return files, problems
}

func relSlash(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.Base(p)
	}
	return filepath.ToSlash(rel)
}

// filters is the normalized form of the filtering part of a ScanRequest.
type filters struct {
	allowed     map[string]bool // nil means everything
	ignoreExts  map[string]bool
	ignoreNames []string
	patterns    []string
	selected    []string // nil means everything; "." is the root level
}

func newFilters(req framework.ScanRequest) filters {
	f := filters{
		ignoreExts: map[string]bool{},
		patterns:   req.IgnorePatterns,
	}
	if req.AllowedExts != nil {
		f.allowed = map[string]bool{}
		for _, ext := range req.AllowedExts {
			if ext = framework.NormalizeExt(ext); ext != "" {
				f.allowed[ext] = true
			}
		}
	}
	for _, ext := range req.IgnoreExts {
		if ext = framework.NormalizeExt(ext); ext != "" {
			f.ignoreExts[ext] = true
		}
	}
	for _, name := range req.IgnoreNames {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			f.ignoreNames = append(f.ignoreNames, name)
		}
	}
	if req.SelectedFolders != nil {
		f.selected = []string{}
		seen := map[string]bool{}
		for _, folder := range req.SelectedFolders {
			folder = strings.Trim(filepath.ToSlash(strings.TrimSpace(folder)), "/")
			if folder == "" {
				folder = "."
			}
			folder = path.Clean(folder)
			if !seen[folder] {
				seen[folder] = true
				f.selected = append(f.selected, folder)
			}
		}
	}
	return f
}

// admit applies the extension and name rules before the file is touched.
func (f filters) admit(name, rawExt, ext, rel string) (framework.ScanStatus, bool) {
	if f.allowed != nil && !f.allowed[ext] {
		return framework.StatusFiltered, false
	}
	if f.ignoreExts[ext] || f.ignoreExts[rawExt] {
		return framework.StatusIgnored, false
	}
	lowered := strings.ToLower(name)
	for _, token := range f.ignoreNames {
		if strings.Contains(lowered, token) {
			return framework.StatusIgnored, false
		}
	}
	if framework.MatchAnyGlob(f.patterns, rel) {
		return framework.StatusIgnored, false
	}
	return "", true
}

// inSelection reports whether rel lies under one of the selected folders.
func (f filters) inSelection(rel string) bool {
	if f.selected == nil {
		return true
	}
	dir := path.Dir(rel)
	for _, folder := range f.selected {
		if folder == "." {
			if dir == "." {
				return true
			}
			continue
		}
		if strings.HasPrefix(strings.ToLower(dir)+"/", strings.ToLower(folder)+"/") {
			return true
		}
	}
	return false
}
