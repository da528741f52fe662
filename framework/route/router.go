// Package route maps categories onto destination folders.
package route

import (
	"sort"

	"github.com/lexcodex/modsorter/framework"
)

// Fallback is the folder used when neither the category nor Unknown is
// mapped.
const Fallback = "Unsorted"

// Router is an immutable category to folder table.
type Router struct {
	folders map[string]string
}

// New copies folders into a router. A nil map gives the built-in table.
func New(folders map[string]string) *Router {
	if folders == nil {
		folders = framework.DefaultFolderMap()
	}
	r := &Router{folders: make(map[string]string, len(folders))}
	for category, folder := range folders {
		r.folders[category] = folder
	}
	return r
}

// Default returns a router over the built-in table.
func Default() *Router {
	return New(nil)
}

// Route returns the folder for category.
func (r *Router) Route(category string) string {
	if folder, ok := r.folders[category]; ok && folder != "" {
		return folder
	}
	if folder, ok := r.folders[framework.CategoryUnknown]; ok && folder != "" {
		return folder
	}
	return Fallback
}

// Folders returns a copy of the table.
func (r *Router) Folders() map[string]string {
	out := make(map[string]string, len(r.folders))
	for k, v := range r.folders {
		out[k] = v
	}
	return out
}

// Categories lists the mapped categories in display order, followed by any
// custom ones sorted by name.
func (r *Router) Categories() []string {
	out := make([]string, 0, len(r.folders))
	for category := range r.folders {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := framework.CategoryIndex(out[i]), framework.CategoryIndex(out[j])
		if ci != cj {
			return ci < cj
		}
		return out[i] < out[j]
	})
	return out
}
