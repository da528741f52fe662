// Package review is the terminal UI for inspecting and adjusting a scan
// before any file is moved.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/framework/route"
	"github.com/lexcodex/modsorter/persistence"
)

// ApplyFunc performs the moves for the reviewed items.
type ApplyFunc func(ctx context.Context, items []*framework.FileItem) (persistence.MoveReport, error)

// Options configures the review model.
type Options struct {
	Root   string
	Result *framework.ScanResult
	Router *route.Router
	Apply  ApplyFunc
}

// Run opens the review UI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Result == nil {
		return errors.New("scan result is required")
	}
	program := tea.NewProgram(
		NewModel(ctx, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

// Model implements the Bubble Tea Model interface over a scan result. Edits
// go to each item's Override; the classifier's verdict is never touched.
type Model struct {
	ctx        context.Context
	root       string
	items      []*framework.FileItem
	errors     []string
	router     *route.Router
	categories []string
	apply      ApplyFunc

	// bundle routes set by the scan, restored when an override is undone.
	baseTargets map[*framework.FileItem]string

	table  table.Model
	detail viewport.Model
	help   help.Model
	keys   keyMap

	width  int
	height int
	ready  bool

	showDetail bool
	confirming bool
	applying   bool
	applied    bool
	status     string
	report     *persistence.MoveReport
}

// appliedMsg carries the outcome of the apply command back into Update.
type appliedMsg struct {
	report persistence.MoveReport
	err    error
}

// NewModel builds the review model. The table starts focused on the first
// item.
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	router := opts.Router
	if router == nil {
		router = route.Default()
	}
	var items []*framework.FileItem
	var errs []string
	if opts.Result != nil {
		items = opts.Result.Items
		errs = opts.Result.Errors
	}
	base := make(map[*framework.FileItem]string, len(items))
	for _, item := range items {
		base[item] = item.Override.TargetFolder
	}

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(colorPrimary)
	styles.Selected = styles.Selected.Foreground(colorText).Background(colorPrimary)
	t.SetStyles(styles)

	m := Model{
		ctx:         ctx,
		root:        opts.Root,
		items:       items,
		errors:      errs,
		router:      router,
		categories:  router.Categories(),
		apply:       opts.Apply,
		baseTargets: base,
		table:       t,
		detail:      viewport.New(80, detailHeight),
		help:        help.New(),
		keys:        defaultKeyMap(),
	}
	m.refreshRows()
	if len(errs) > 0 {
		m.status = fmt.Sprintf("%d scan problem(s)", len(errs))
	}
	return m
}

// Items returns the reviewed items with their overrides.
func (m Model) Items() []*framework.FileItem {
	return m.items
}

// Report is the outcome of the apply, if one ran.
func (m Model) Report() *persistence.MoveReport {
	return m.report
}

func (m Model) current() *framework.FileItem {
	if len(m.items) == 0 {
		return nil
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}
	return m.items[idx]
}

// toggleInclude flips the include decision of the selected item.
func (m Model) toggleInclude() Model {
	item := m.current()
	if item == nil {
		return m
	}
	item.SetInclude(!item.Included())
	state := "included"
	if !item.Included() {
		state = "excluded"
	}
	m.status = fmt.Sprintf("%s %s", item.Name, state)
	m.refreshRows()
	return m
}

// cycleCategory moves the selected item to the next or previous category;
// its target follows the router.
func (m Model) cycleCategory(delta int) Model {
	item := m.current()
	if item == nil || len(m.categories) == 0 {
		return m
	}
	idx := -1
	for i, category := range m.categories {
		if category == item.Category() {
			idx = i
			break
		}
	}
	n := len(m.categories)
	next := m.categories[((idx+delta)%n+n)%n]
	if idx < 0 && delta < 0 {
		next = m.categories[n-1]
	}
	if next == item.Classification.Category {
		item.Override.Category = ""
		item.Override.TargetFolder = m.baseTargets[item]
	} else {
		item.Override.Category = next
		item.Override.TargetFolder = m.router.Route(next)
	}
	m.status = fmt.Sprintf("%s -> %s (%s)", item.Name, item.Category(), item.Target())
	m.refreshRows()
	return m
}

// resetItem drops every review override on the selected item.
func (m Model) resetItem() Model {
	item := m.current()
	if item == nil {
		return m
	}
	item.Override.Include = nil
	item.Override.Category = ""
	item.Override.TargetFolder = m.baseTargets[item]
	m.status = item.Name + " reset"
	m.refreshRows()
	return m
}

func (m Model) applyCmd() tea.Cmd {
	apply := m.apply
	items := m.items
	ctx := m.ctx
	return func() tea.Msg {
		report, err := apply(ctx, items)
		return appliedMsg{report: report, err: err}
	}
}

func (m Model) counts() (included, changed int) {
	for _, item := range m.items {
		if item.Included() {
			included++
		}
		if item.Override.Include != nil || item.Override.Category != "" {
			changed++
		}
	}
	return included, changed
}
