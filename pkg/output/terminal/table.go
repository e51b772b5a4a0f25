package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/who0xac/hackfusion/pkg/tools"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")).Padding(0, 1)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF2200")).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#0066FF")).Padding(0, 1)
)

// Table renders a rounded two-column table. The first column is styled as a
// key, the second as a value; rows whose value starts with "error:" are red.
func Table(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			case row >= 0 && row < len(rows) && col < len(rows[row]) && strings.HasPrefix(rows[row][col], "error:"):
				return errorStyle
			default:
				return valueStyle
			}
		})

	if w := Width(); w > 20 {
		t = t.Width(w)
	}

	if title == "" {
		return t.Render()
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), t.Render())
}

// Panel wraps text in a rounded border
func Panel(body string) string {
	return panelStyle.Render(body)
}

// MenuTable renders the numbered option list of a menu
func MenuTable(title string, options [][2]string) string {
	rows := make([][]string, 0, len(options))
	for _, o := range options {
		rows = append(rows, []string{o[0], o[1]})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Option", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			default:
				return valueStyle
			}
		})
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), t.Render())
}

// ScanTable renders the results of a category scan, one row per tool
func ScanTable(title string, results []tools.NamedResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{string(r.Tool), summarize(r.Result)})
	}
	return Table(title, []string{"Tool", "Results"}, rows)
}

// summarize condenses a result into one table cell
func summarize(r tools.Result) string {
	if r.Failed() {
		return "error: " + r.Err()
	}

	var b strings.Builder
	if cmd, ok := r[tools.KeyCommand].(string); ok && cmd != "" {
		fmt.Fprintf(&b, "$ %s\n", cmd)
	}
	for _, key := range r.Keys() {
		switch key {
		case tools.KeyCommand, tools.KeyOutput, tools.KeyVulnerabilities:
			continue
		}
		fmt.Fprintf(&b, "%s: %v\n", key, r[key])
	}
	if vulns := r.Vulnerabilities(); len(vulns) > 0 {
		fmt.Fprintf(&b, "%d findings:\n", len(vulns))
		for _, v := range vulns {
			fmt.Fprintf(&b, "  - %s\n", v)
		}
	}
	if out := r.Output(); out != "" {
		b.WriteString(stripANSI(Truncate(out, 15)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// stripANSI removes colour escapes that tools print even without a TTY
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
