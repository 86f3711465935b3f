package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// gutter separates columns.
const gutter = "  "

// Table renders aligned columns with a styled header and rule. Widths are
// measured in terminal cells, so styled cells and block glyphs line up.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
	right   map[int]bool
}

// NewTable creates a new table with the given column headers.
func NewTable(headers ...string) *Table {
	t := &Table{
		headers: headers,
		widths:  make([]int, len(headers)),
		right:   make(map[int]bool),
	}
	for i, h := range headers {
		t.widths[i] = visualLen(h)
	}
	return t
}

// AlignRight right-aligns the given column indexes, for amounts and counts.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// AddRow adds a row. Missing trailing values render empty and extra
// values are dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	for i, cell := range row {
		t.widths[i] = max(t.widths[i], visualLen(cell))
	}
	t.rows = append(t.rows, row)
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render returns the formatted table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	var sb strings.Builder
	t.writeRow(&sb, t.headers, func(s string) string { return StyleHeader.Render(s) })

	rules := make([]string, len(t.widths))
	for i, w := range t.widths {
		rules[i] = StyleMuted.Render(strings.Repeat("─", w))
	}
	sb.WriteString(strings.Join(rules, gutter))
	sb.WriteString("\n")

	for _, row := range t.rows {
		t.writeRow(&sb, row, nil)
	}
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, cells []string, style func(string) string) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(gutter)
		}
		if t.right[i] {
			cell = padLeft(cell, t.widths[i])
		} else if i < len(cells)-1 {
			cell = pad(cell, t.widths[i])
		}
		if style != nil {
			cell = style(cell)
		}
		sb.WriteString(cell)
	}
	sb.WriteString("\n")
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return t.Render()
}

// Print writes the table to w.
func (t *Table) Print(w io.Writer) {
	_, _ = fmt.Fprint(w, t.Render())
}

// visualLen is the printed cell width of s, ignoring ANSI escapes.
func visualLen(s string) int {
	return lipgloss.Width(s)
}

// pad right-pads a string to the given visual width.
func pad(s string, width int) string {
	if n := width - visualLen(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// padLeft left-pads a string to the given visual width.
func padLeft(s string, width int) string {
	if n := width - visualLen(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
