package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"

	"github.com/lexcodex/modsorter/framework"
	"github.com/lexcodex/modsorter/persistence"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"

	notesWidth = 48
	nameWidth  = 40
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// planEntry is the machine-readable form of one planned move.
type planEntry struct {
	Name        string            `json:"name" yaml:"name"`
	DisplayName string            `json:"display_name" yaml:"display_name"`
	RelPath     string            `json:"relpath" yaml:"relpath"`
	Category    string            `json:"category" yaml:"category"`
	Confidence  float64           `json:"confidence" yaml:"confidence"`
	Target      string            `json:"target" yaml:"target"`
	Include     bool              `json:"include" yaml:"include"`
	Bundle      string            `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Notes       string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Extras      map[string]string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

func planEntries(items []*framework.FileItem) []planEntry {
	out := make([]planEntry, 0, len(items))
	for _, item := range items {
		extras := map[string]string{}
		for k, v := range item.Classification.Extras {
			extras[k] = v
		}
		for k, v := range item.Override.Annotations {
			extras[k] = v
		}
		if len(extras) == 0 {
			extras = nil
		}
		out = append(out, planEntry{
			Name:        item.Name,
			DisplayName: framework.PrettyDisplayName(item.Name),
			RelPath:     item.RelPath,
			Category:    item.Category(),
			Confidence:  item.Confidence(),
			Target:      item.Target(),
			Include:     item.Included(),
			Bundle:      item.Bundle(),
			Notes:       item.Notes(),
			Tags:        item.Classification.Tags,
			Extras:      extras,
		})
	}
	return out
}

// writeStructured encodes v as json or yaml.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)
}

// renderPlan prints one row per item in scan order.
func renderPlan(w io.Writer, items []*framework.FileItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, dimStyle.Render("Nothing to move."))
		return
	}
	t := newTable("", "Category", "Conf", "Name", "Folder", "Target", "Bundle", "Notes")
	for _, item := range items {
		mark := "✓"
		if !item.Included() {
			mark = "✗"
		}
		if item.Extra("duplicate") != "" {
			mark += " ⚠"
		}
		t.Row(
			mark,
			item.Category(),
			fmt.Sprintf("%.2f", item.Confidence()),
			truncate.StringWithTail(framework.PrettyDisplayName(item.Name), nameWidth, "…"),
			path.Dir(item.RelPath),
			item.Target(),
			item.Bundle(),
			wordwrap.String(item.Notes(), notesWidth),
		)
	}
	fmt.Fprintln(w, t.Render())
}

// renderSummary prints per-category counts, metrics and scan errors.
func renderSummary(w io.Writer, result *framework.ScanResult) {
	counts := result.CategoryCounts()
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return framework.CategoryIndex(categories[i]) < framework.CategoryIndex(categories[j])
	})
	t := newTable("Category", "Files")
	for _, category := range categories {
		t.Row(category, fmt.Sprintf("%d", counts[category]))
	}
	if len(result.Disabled) > 0 {
		t.Row("(disabled)", fmt.Sprintf("%d", len(result.Disabled)))
	}
	fmt.Fprintln(w, t.Render())

	m := result.Metrics
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf(
		"%d item(s) from %d file(s) in %s | scanned %d, cached %d (%.0f%% hit rate) | %.1f ms/file",
		len(result.Items), result.Total, m.Duration.Round(time.Millisecond), m.FilesScanned, m.CacheHits, m.HitRate()*100, m.AvgMillis(),
	)))
	renderErrors(w, result.Errors)
}

func renderErrors(w io.Writer, errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d problem(s):", len(errs))))
	for _, e := range errs {
		fmt.Fprintln(w, "  - "+wordwrap.String(e, 100))
	}
}

func renderMoveReport(w io.Writer, report persistence.MoveReport) {
	fmt.Fprintf(w, "Moved %d file(s), skipped %d.\n", report.Moved, report.Skipped)
	if len(report.Collisions) == 0 {
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d collision(s):", len(report.Collisions))))
	for _, c := range report.Collisions {
		fmt.Fprintf(w, "  - %s -> %s (%s)\n", c.From, c.To, c.Reason)
	}
}

func renderUndoReport(w io.Writer, report persistence.UndoReport) {
	fmt.Fprintf(w, "Undone %d move(s), %d failed.\n", report.Undone, report.Failed)
	if len(report.Errors) > 0 {
		fmt.Fprintln(w, warnStyle.Render(strings.Join(report.Errors, "\n")))
	}
}
