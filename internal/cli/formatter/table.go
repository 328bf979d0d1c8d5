package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders a simple aligned table with a header separator line.
// Headers use the Header style. Columns are padded to the maximum visible
// width found in each column across both headers and rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		if w := lipgloss.Width(h); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder

	for i, h := range headers {
		b.WriteString(StyleHeader.Render(h))
		if i < cols-1 {
			b.WriteString(pad(widths[i] - lipgloss.Width(h)))
		}
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(pad(0))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(cell)
			if i < cols-1 {
				b.WriteString(pad(widths[i] - lipgloss.Width(cell)))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderKV renders label/value pairs with right-aligned labels, used for
// detail panes.
func RenderKV(pairs [][2]string) string {
	labelWidth := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	for _, p := range pairs {
		label := p[0]
		b.WriteString(strings.Repeat(" ", labelWidth-lipgloss.Width(label)))
		b.WriteString(StyleDim.Render(label))
		b.WriteString("  ")
		b.WriteString(p[1])
		b.WriteString("\n")
	}
	return b.String()
}

func pad(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n+colGap)
}
