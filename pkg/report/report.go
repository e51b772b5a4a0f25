package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/who0xac/hackfusion/pkg/plan"
)

// DateLayout is used for the overview date and execution log times
const DateLayout = "2006-01-02 15:04:05"

// Generate renders a finished run as a markdown assessment report. Apart
// from the date line, the same run always renders to the same text.
func Generate(run *plan.Run, generatedAt time.Time) string {
	var b strings.Builder
	p := run.Plan
	if p == nil {
		p = &plan.Plan{}
	}

	b.WriteString("# HackFusion Security Assessment Report\n")
	b.WriteString("\n## Overview\n")
	fmt.Fprintf(&b, "- **Category:** %s\n", p.Category)
	fmt.Fprintf(&b, "- **Description:** %s\n", p.Description)
	fmt.Fprintf(&b, "- **Tools Used:** %s\n", strings.Join(p.Tools, ", "))
	fmt.Fprintf(&b, "- **Date:** %s\n", generatedAt.Format(DateLayout))

	b.WriteString("\n## Results\n")
	for _, r := range run.Results {
		writeResult(&b, r)
	}

	b.WriteString("\n## Execution Log\n")
	b.WriteString("| Time | Step | Action | Tool | Status | Details |\n")
	b.WriteString("|------|------|--------|------|--------|---------|\n")
	for _, l := range run.Logs {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			l.Timestamp.Format(DateLayout),
			l.Step,
			cell(l.Action),
			cell(l.Tool),
			statusIcon(l.Status),
			cell(details(l)),
		)
	}

	b.WriteString("\n## Recommendations\n")
	b.WriteString("Based on the assessment results, we recommend:\n")
	for _, r := range run.Results {
		if len(r.Result.Vulnerabilities()) > 0 {
			fmt.Fprintf(&b, "\n- Address the identified vulnerabilities in %s scan\n", r.Step.Tool)
		}
	}

	if failed := run.Failed(); len(failed) > 0 {
		b.WriteString("\n### Failed Steps\n")
		b.WriteString("The following steps encountered errors and should be investigated:\n")
		for _, l := range failed {
			msg := l.Error
			if msg == "" {
				msg = "Unknown error"
			}
			fmt.Fprintf(&b, "- %s: %s\n", l.Action, msg)
		}
	}

	return b.String()
}

func writeResult(b *strings.Builder, r plan.ResultEntry) {
	fmt.Fprintf(b, "\n### %s\n", r.Step.Label())
	fmt.Fprintf(b, "- **Tool:** %s\n", r.Step.Tool)
	fmt.Fprintf(b, "- **Description:** %s\n", r.Step.Description)

	for _, key := range r.Result.Keys() {
		value := formatValue(r.Result[key])
		if strings.Contains(value, "\n") {
			fence := codeFence(value)
			fmt.Fprintf(b, "- **%s:**\n\n%s\n%s\n%s\n\n", key, fence, strings.TrimRight(value, "\n"), fence)
			continue
		}
		fmt.Fprintf(b, "- **%s:** %s\n", key, value)
	}
}

// formatValue renders a result value on one line where possible
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	case fmt.Stringer:
		return val.String()
	case int, int64, float64, bool:
		return fmt.Sprint(val)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// codeFence returns a backtick fence longer than any backtick run in s
func codeFence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

func details(l plan.LogEntry) string {
	var parts []string
	if l.Target != "" {
		parts = append(parts, "Target: "+l.Target)
	}
	if l.Error != "" {
		parts = append(parts, "Error: "+l.Error)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " / ")
}

func statusIcon(s plan.Status) string {
	switch s {
	case plan.StatusSuccess:
		return "✅"
	case plan.StatusError:
		return "❌"
	default:
		return "⏳"
	}
}

// cell keeps a value inside one markdown table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// Summary counts a run's findings for notifications and history listings
func Summary(run *plan.Run) (steps, failed, findings int) {
	for _, r := range run.Results {
		findings += len(r.Result.Vulnerabilities())
	}
	return len(run.Logs), len(run.Failed()), findings
}
