package classify

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"

	"github.com/lexcodex/modsorter/framework"
)

// DefaultSummaryEntries caps how many zip entries SummarizeArchive counts.
const DefaultSummaryEntries = 200

// CheckScript opens a script archive and decides between a real script mod
// and a renamed zip without Python inside.
func CheckScript(filePath string, adultHint bool) (Result, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return Result{}, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".py", ".pyc":
			category := framework.CategoryScriptMod
			if adultHint {
				category = framework.CategoryAdultScript
			}
			return Result{Category: category, Confidence: 1.0, Notes: "Zip/ts4script with .py/.pyc"}, nil
		}
	}
	category := framework.CategoryArchive
	if adultHint {
		category = framework.CategoryAdultOther
	}
	return Result{Category: category, Confidence: 0.6, Notes: "Zip without Python"}, nil
}

type bucket struct {
	singular string
	plural   string
}

var summaryBuckets = []bucket{
	{"package", "packages"},
	{"script", "scripts"},
	{"python file", "python files"},
	{"text file", "text files"},
	{"image", "images"},
	{"archive", "archives"},
	{"other file", "other files"},
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".webp": true, ".dds": true}

func bucketFor(name string) int {
	ext := strings.ToLower(path.Ext(name))
	switch {
	case framework.PackageExts[ext]:
		return 0
	case framework.ScriptExts[ext]:
		return 1
	case ext == ".py" || ext == ".pyc":
		return 2
	case framework.TextExts[ext] || ext == ".md" || ext == ".json" || ext == ".xml":
		return 3
	case imageExts[ext]:
		return 4
	case framework.ArchiveExts[ext]:
		return 5
	}
	return 6
}

// SummarizeArchive counts the entries of a zip by kind and renders a note
// such as "Archive contents: 2 packages, 1 script". Directories are not
// counted. The note is empty when the archive cannot be read or holds no
// files.
func SummarizeArchive(filePath string, maxEntries int) string {
	if maxEntries <= 0 {
		maxEntries = DefaultSummaryEntries
	}
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return ""
	}
	defer zr.Close()

	counts := make([]int, len(summaryBuckets))
	seen := 0
	truncated := false
	for _, f := range zr.File {
		if seen >= maxEntries {
			truncated = true
			break
		}
		seen++
		if f.FileInfo().IsDir() {
			continue
		}
		counts[bucketFor(f.Name)]++
	}

	var parts []string
	for i, n := range counts {
		switch {
		case n == 1:
			parts = append(parts, "1 "+summaryBuckets[i].singular)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %s", n, summaryBuckets[i].plural))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	note := "Archive contents: " + strings.Join(parts, ", ")
	if truncated {
		note += fmt.Sprintf(" (first %d entries)", maxEntries)
	}
	return note
}
