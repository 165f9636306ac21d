// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package cli renders joyctl output: aligned tables and key-value lines for
// terminals, or JSON.
package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
)

// Theme colors.
var (
	Purple = lipgloss.Color("99")
	Gray   = lipgloss.Color("245")
	White  = lipgloss.Color("15")
	Teal   = lipgloss.Color("#06ffa5")
	Red    = lipgloss.Color("196")
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	valueStyle  = lipgloss.NewStyle().Foreground(Teal)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	evenStyle   = lipgloss.NewStyle().Foreground(Teal)
	oddStyle    = lipgloss.NewStyle().Foreground(White)

	// DimStyle is for secondary text.
	DimStyle = lipgloss.NewStyle().Foreground(Gray)

	// WarnStyle highlights truncation and partial failures.
	WarnStyle = lipgloss.NewStyle().Bold(true).Foreground(Red)
)

// Section is a titled table.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

const (
	maxColWidth = 50
	colGap      = 2

	// KVMinColWidth keeps consecutive PrintKV lines aligned.
	KVMinColWidth = 20
)

// PrintTable renders sections as compact column-aligned tables. Multi-line
// cells are flattened and long cells truncated.
func PrintTable(w io.Writer, sections ...Section) {
	for _, section := range sections {
		if section.Title != "" {
			fmt.Fprintf(w, "\n  %s:\n", headerStyle.Render(section.Title))
		} else {
			fmt.Fprintln(w)
		}
		if len(section.Rows) == 0 {
			fmt.Fprintf(w, "  %s\n", DimStyle.Render("(none)"))
			continue
		}

		rows := make([][]string, len(section.Rows))
		for r, row := range section.Rows {
			flat := make([]string, len(row))
			for c, cell := range row {
				flat[c] = strings.Join(strings.Fields(cell), " ")
			}
			rows[r] = flat
		}

		widths := make([]int, len(section.Headers))
		for i, h := range section.Headers {
			widths[i] = len(h)
		}
		for _, row := range rows {
			for i, cell := range row {
				if i < len(widths) && len(cell) > widths[i] {
					widths[i] = min(len(cell), maxColWidth)
				}
			}
		}

		var hdr strings.Builder
		hdr.WriteString("  ")
		for i, h := range section.Headers {
			hdr.WriteString(headerStyle.Render(pad(strings.ToUpper(h), widths[i], i == len(widths)-1)))
		}
		fmt.Fprintln(w, hdr.String())

		for r, row := range rows {
			style := evenStyle
			if r%2 != 0 {
				style = oddStyle
			}
			var line strings.Builder
			line.WriteString("  ")
			for i := range section.Headers {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				if len(cell) > widths[i] {
					cell = cell[:widths[i]-1] + "…"
				}
				line.WriteString(style.Render(pad(cell, widths[i], i == len(widths)-1)))
			}
			fmt.Fprintln(w, line.String())
		}
	}
}

func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	return fmt.Sprintf("%-*s", width+colGap, s)
}

// PrintKV prints label/value pairs on one indented line. Arguments alternate
// label, value.
func PrintKV(w io.Writer, pairs ...string) {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return
	}

	rendered := make([]string, 0, len(pairs)/2)
	width := KVMinColWidth
	for i := 0; i < len(pairs); i += 2 {
		pair := labelStyle.Render(pairs[i]+":") + " " + valueStyle.Render(pairs[i+1])
		rendered = append(rendered, pair)
		width = max(width, lipgloss.Width(pair))
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, pair := range rendered {
		line.WriteString(pair)
		if i < len(rendered)-1 {
			line.WriteString(strings.Repeat(" ", width-lipgloss.Width(pair)+4))
		}
	}
	fmt.Fprintln(w, line.String())
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CountRows turns a count map into rows sorted by count descending, then key.
func CountRows[K ~string](counts map[K]int64) [][]string {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{string(k), strconv.FormatInt(counts[k], 10)}
	}
	return rows
}

// SafeString dereferences s, or returns "-".
func SafeString(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// FormatTime renders t in UTC to the second, or "-" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.DateTime)
}
