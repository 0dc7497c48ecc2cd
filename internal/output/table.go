package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/soclabs/lookout/internal/engine"
	"github.com/soclabs/lookout/internal/probe"
)

var portTableHeaders = []string{"Port", "Service", "State", "Banner"}

// WriteTable renders the port scan records as a styled terminal table.
// Records arrive already sorted by port; the table preserves that order.
func WriteTable(w io.Writer, report *engine.Report, noColor bool) {
	if report.Ports == nil || len(report.Ports.Records) == 0 {
		return
	}

	var rows [][]string
	for _, rec := range report.Ports.Records {
		state := string(rec.Outcome)
		if rec.Outcome == probe.OutcomeError && rec.Reason != "" {
			state = fmt.Sprintf("error (%s)", truncate(rec.Reason, 30))
		}
		rows = append(rows, []string{
			strconv.Itoa(rec.Port),
			rec.Service,
			state,
			truncate(rec.Banner, 50),
		})
	}

	fmt.Fprintln(w)

	if noColor {
		writeSimpleTable(w, portTableHeaders, rows)
		return
	}

	t := table.New().
		Headers(portTableHeaders...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
			}
			if row >= 0 && row < len(rows) && rows[row][2] == string(probe.OutcomeOpen) {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		})

	for _, row := range rows {
		t.Row(row...)
	}

	fmt.Fprintln(w, t.Render())
}

func writeSimpleTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, " | ")
		}
		fmt.Fprintf(w, "%-*s", widths[i], h)
	}
	fmt.Fprintln(w)

	for i, width := range widths {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", width))
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprintf(w, "%-*s", widths[i], cell)
		}
		fmt.Fprintln(w)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
