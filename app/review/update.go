package review

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const detailHeight = 9

// Init fulfills the Bubble Tea Model interface.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update applies incoming Bubble Tea messages to mutate the Model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil
	case appliedMsg:
		return m.handleApplied(msg), nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.applying {
			return m, tea.Quit
		}
		if m.applying {
			return m, nil
		}
		if m.confirming {
			return m.handleConfirm(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.relayout(), nil
	case m.applied:
		// Paths are stale once files moved; only navigation is allowed.
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleInclude().syncDetail(), nil
	case key.Matches(msg, m.keys.Next):
		return m.cycleCategory(1).syncDetail(), nil
	case key.Matches(msg, m.keys.Prev):
		return m.cycleCategory(-1).syncDetail(), nil
	case key.Matches(msg, m.keys.Reset):
		return m.resetItem().syncDetail(), nil
	case key.Matches(msg, m.keys.Apply):
		if m.apply == nil {
			m.status = "apply is not available"
			return m, nil
		}
		included, _ := m.counts()
		if included == 0 {
			m.status = "nothing included"
			return m, nil
		}
		m.confirming = true
		return m, nil
	}
	if key.Matches(msg, m.keys.Detail) {
		m.showDetail = !m.showDetail
		return m.relayout().syncDetail(), nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m.syncDetail(), cmd
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirming = false
		m.applying = true
		m.status = "moving files..."
		return m, m.applyCmd()
	case key.Matches(msg, m.keys.Cancel):
		m.confirming = false
		m.status = "apply cancelled"
	}
	return m, nil
}

func (m Model) handleApplied(msg appliedMsg) Model {
	m.applying = false
	m.applied = true
	report := msg.report
	m.report = &report
	m.status = fmt.Sprintf("moved %d, skipped %d, %d collision(s)", report.Moved, report.Skipped, len(report.Collisions))
	if msg.err != nil {
		m.status += ": " + msg.err.Error()
	}
	return m
}

// handleResize adjusts the table and detail pane on terminal resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.help.Width = msg.Width
	m.table.SetColumns(columns(msg.Width))
	m.table.SetWidth(msg.Width)
	m.detail.Width = max(20, msg.Width-4)
	return m.relayout().syncDetail()
}

// relayout gives the table whatever height the header, detail pane, help and
// status bar leave.
func (m Model) relayout() Model {
	if !m.ready {
		return m
	}
	chrome := 3 // header, help, status
	if m.help.ShowAll {
		chrome += 3
	}
	if m.showDetail {
		chrome += detailHeight + 2
	}
	m.table.SetHeight(max(3, m.height-chrome))
	m.detail.Height = detailHeight
	return m
}

func (m Model) syncDetail() Model {
	if !m.showDetail {
		return m
	}
	m.detail.SetContent(renderDetail(m.current(), m.detail.Width))
	m.detail.GotoTop()
	return m
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.items))
	for _, item := range m.items {
		mark := "✓"
		if !item.Included() {
			mark = "✗"
		}
		if item.Extra("duplicate") != "" {
			mark += "⚠"
		}
		category := item.Category()
		if item.Override.Category != "" {
			category += "*"
		}
		rows = append(rows, table.Row{
			mark,
			category,
			fmt.Sprintf("%.2f", item.Confidence()),
			item.RelPath,
			item.Target(),
		})
	}
	m.table.SetRows(rows)
}

// columns splits width between the fixed and the flexible columns.
func columns(width int) []table.Column {
	const (
		markW = 3
		catW  = 20
		confW = 5
	)
	flex := max(20, width-markW-catW-confW-12)
	nameW := flex * 3 / 5
	return []table.Column{
		{Title: "", Width: markW},
		{Title: "Category", Width: catW},
		{Title: "Conf", Width: confW},
		{Title: "File", Width: nameW},
		{Title: "Target", Width: flex - nameW},
	}
}
