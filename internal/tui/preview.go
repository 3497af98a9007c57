package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/lotexport/internal/core"
)

const maxCellWidth = 18

var (
	headerCellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).PaddingRight(1)
	cellStyle       = lipgloss.NewStyle().PaddingRight(1)
)

// RenderPreview lays out preview rows as numbered columns so the operator can
// pick a field for each one. When headers are bound, each column label also
// shows its field. Long cells are shortened with an ellipsis.
func RenderPreview(rows [][]string, columns int, headers []core.Field) string {
	widths := make([]int, columns)
	header := make([]string, columns)
	for i := range header {
		header[i] = fmt.Sprintf("#%d", i+1)
		if i < len(headers) {
			header[i] += " " + string(headers[i])
		}
		widths[i] = lipgloss.Width(header[i])
	}
	for _, row := range rows {
		for i := 0; i < columns && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(shorten(row[i])))
		}
	}

	var b strings.Builder
	b.WriteString(renderRow(header, widths, headerCellStyle))
	for _, row := range rows {
		cells := make([]string, columns)
		for i := 0; i < columns && i < len(row); i++ {
			cells[i] = shorten(row[i])
		}
		b.WriteString(renderRow(cells, widths, cellStyle))
	}
	return b.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = style.Width(widths[i] + 1).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-1]) + "…"
}
