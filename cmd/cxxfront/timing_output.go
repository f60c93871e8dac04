package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"cxxfront/internal/driver"
)

var timingStages = []driver.Stage{driver.StageDecode, driver.StageLower, driver.StageValidate, driver.StageEncode}

// printTimings renders one row per unit with the duration of every stage
// in milliseconds.
func printTimings(out io.Writer, results []driver.Result, styled bool) {
	if out == nil || len(results) == 0 {
		return
	}
	headers := []string{"unit"}
	for _, s := range timingStages {
		headers = append(headers, string(s))
	}
	headers = append(headers, "total")

	t := table.New().Headers(headers...)
	var totals [5]float64
	for _, r := range results {
		row := []string{filepath.Base(r.Path)}
		for i, s := range timingStages {
			ms, ok := r.Timing.Phase(string(s))
			if !ok {
				row = append(row, "-")
				continue
			}
			totals[i] += ms
			row = append(row, fmt.Sprintf("%.1f", ms))
		}
		totals[4] += r.Timing.TotalMS
		row = append(row, fmt.Sprintf("%.1f", r.Timing.TotalMS))
		t.Row(row...)
	}
	if len(results) > 1 {
		row := []string{"all"}
		for _, v := range totals {
			row = append(row, fmt.Sprintf("%.1f", v))
		}
		t.Row(row...)
	}

	if styled {
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cell := lipgloss.NewStyle().Padding(0, 1)
		t.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == 0 {
					return header
				}
				if col > 0 {
					return cell.Align(lipgloss.Right)
				}
				return cell
			})
	} else {
		t.Border(lipgloss.HiddenBorder())
	}
	fmt.Fprintln(out, t.Render())
}
