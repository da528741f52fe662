package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lexcodex/modsorter/framework"
)

// View composes the header, item table, optional detail pane, help and
// status bar.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	parts := []string{
		headerStyle.Render("Review ") + dimStyle.Render(truncate.StringWithTail(m.root, uint(max(10, m.width-8)), "…")),
		m.table.View(),
	}
	if m.showDetail {
		parts = append(parts, detailBoxStyle.Width(max(20, m.width-2)).Render(m.detail.View()))
	}
	if m.confirming {
		included, _ := m.counts()
		parts = append(parts, confirmStyle.Render(fmt.Sprintf("Move %d included file(s) now? y/n", included)))
	}
	parts = append(parts, m.help.View(m.keys), m.statusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statusBar() string {
	included, changed := m.counts()
	left := fmt.Sprintf("%d/%d included | %d edited", included, len(m.items), changed)
	right := m.status
	switch {
	case m.applying:
		right = warningStyle.Render(right)
	case m.applied:
		right = includedStyle.Render(right)
	}
	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return statusStyle.Render(left + strings.Repeat(" ", padding) + right)
}

// renderDetail lists everything known about one item, wrapped to width.
func renderDetail(item *framework.FileItem, width int) string {
	if item == nil {
		return dimStyle.Render("No item selected.")
	}
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label+": ") + wordwrap.String(value, width-len(label)-2) + "\n")
	}
	include := includedStyle.Render("yes")
	if !item.Included() {
		include = excludedStyle.Render("no")
	}
	line("Name", framework.PrettyDisplayName(item.Name))
	line("File", item.RelPath)
	line("Category", fmt.Sprintf("%s (%.2f)", item.Category(), item.Confidence()))
	if item.Override.Category != "" {
		line("Classified as", item.Classification.Category)
	}
	line("Target", item.Target())
	b.WriteString(labelStyle.Render("Include: ") + include + "\n")
	line("Size", fmt.Sprintf("%.2f MB", item.SizeMB))
	line("Bundle", item.Bundle())
	line("Notes", item.Notes())
	line("Tags", item.MetaTags())
	for _, kv := range sortedPairs(item.Classification.Extras) {
		line(kv[0], kv[1])
	}
	for _, kv := range sortedPairs(item.Override.Annotations) {
		line(kv[0], kv[1])
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedPairs(m map[string]string) [][2]string {
	out := make([][2]string, 0, len(m))
	for k, v := range m {
		out = append(out, [2]string{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
