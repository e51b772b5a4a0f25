package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/tools"
)

// Colors
var (
	Blue    = color.New(color.FgCyan).SprintFunc()
	Cyan    = color.New(color.FgCyan).SprintFunc() // Alias for Blue
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	White   = color.New(color.FgWhite).SprintFunc()
	Gray    = color.New(color.FgHiBlack).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
)

// PrintBanner prints the program name and version
func PrintBanner(version string) {
	fmt.Println()
	fmt.Printf("%s %s\n", Bold(Red("HackFusion")), Gray("v"+version))
	fmt.Println(Gray("AI-assisted security testing toolkit"))
	fmt.Println()
}

// PrintSectionHeader prints a section header with arrows
func PrintSectionHeader(title string) {
	width := Width()
	if width > 75 {
		width = 75
	}
	arrows := strings.Repeat("→", width)
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Println()
	fmt.Println(Blue(arrows))
	fmt.Printf("%s%s\n", strings.Repeat(" ", pad), Bold(title))
	fmt.Println(Blue(arrows))
	fmt.Println()
}

// PrintSectionDivider prints a section divider
func PrintSectionDivider() {
	fmt.Println(strings.Repeat("─", 80))
}

// PrintProgress prints a simple progress message
func PrintProgress(message string) {
	fmt.Printf("%s %s\n", Blue("→"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", Green("✓"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", Yellow("⚠"), message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("%s %s\n", Red("✗"), message)
}

// PrintInfo prints an informational message
func PrintInfo(message string) {
	fmt.Printf("%s %s\n", Blue("ℹ"), message)
}

// PrintAlert prints an alert message
func PrintAlert(message string) {
	fmt.Printf("%s %s\n", Red("⚠"), Red(message))
}

// ClearLine clears the current line
func ClearLine() {
	fmt.Print("\r\033[K")
}

// PrintPlan prints the plan panel shown before execution
func PrintPlan(p *plan.Plan) {
	body := fmt.Sprintf("%s %s\n%s %s\n%s %s",
		Blue("Category:"), p.Category,
		Blue("Description:"), p.Description,
		Blue("Tools:"), strings.Join(p.Tools, ", "),
	)
	fmt.Println(Panel(body))

	for i, s := range p.Steps {
		fmt.Printf("   %s %s %s\n", Gray(fmt.Sprintf("%d.", i+1)), Bold(s.Label()), Gray("("+s.Tool+")"))
	}
	fmt.Println()
}

// PrintStep prints the header for one plan step
func PrintStep(step plan.Step) {
	fmt.Println()
	fmt.Printf("%s %s\n", Yellow("Step:"), step.Label())
	fmt.Printf("%s %s\n", Blue("Tool:"), step.Tool)
	if step.Description != "" {
		fmt.Printf("%s %s\n", Blue("Description:"), step.Description)
	}
}

// PrintStepFinished prints a step's terminal status and its result
func PrintStepFinished(entry plan.LogEntry, result tools.Result) {
	if entry.Status == plan.StatusError {
		fmt.Printf("\r\033[K%s %s failed: %s\n", Red("●"), Blue(entry.Tool), Yellow(entry.Error))
		return
	}

	fmt.Printf("\r\033[K%s %s complete", Green("●"), Blue(entry.Tool))
	if n := len(result.Vulnerabilities()); n > 0 {
		fmt.Printf(" [%s]", Red(fmt.Sprintf("%d findings", n)))
	}
	fmt.Println()
	PrintResult(result)
}

// PrintResult prints every key of a tool result
func PrintResult(result tools.Result) {
	for _, key := range result.Keys() {
		if key == tools.KeyVulnerabilities {
			continue
		}
		value := fmt.Sprint(result[key])
		if key == tools.KeyError {
			fmt.Printf("%s %s\n", Red(key+":"), value)
			continue
		}
		fmt.Printf("%s %s\n", Green(key+":"), Truncate(value, 40))
	}

	vulns := result.Vulnerabilities()
	for i, v := range vulns {
		branch := "├─"
		if i == len(vulns)-1 {
			branch = "└─"
		}
		fmt.Printf("   %s %s\n", Red(branch), Yellow(v))
	}
}

// PrintRunSummary prints the final statistics of a plan run
func PrintRunSummary(run *plan.Run, findings int) {
	fmt.Println()
	PrintSectionDivider()
	fmt.Printf("\n%s %s\n", Blue("→"), Bold("RUN SUMMARY"))
	PrintSectionDivider()
	fmt.Println()

	failed := len(run.Failed())
	fmt.Printf("   Run ID: %s\n", Gray(run.ID))
	fmt.Printf("   Steps Executed: %s\n", Green(fmt.Sprintf("%d", len(run.Logs))))
	fmt.Printf("   Steps Failed: %s\n", Red(fmt.Sprintf("%d", failed)))
	fmt.Printf("   Findings: %s\n", Yellow(fmt.Sprintf("%d", findings)))
	fmt.Printf("   Duration: %s\n", White(run.Duration().Round(time.Second).String()))

	fmt.Println()
}

// PrintAINotAvailable prints why the AI assistant is disabled
func PrintAINotAvailable(reason string) {
	fmt.Println()
	fmt.Printf("%s AI Assistant not available: %s\n", Red("✗"), reason)
	fmt.Printf("%s To enable AI features, set the %s environment variable\n", Yellow("ℹ"), Bold("OPENAI_API_KEY"))
	fmt.Printf("%s Or run a local model with: %s\n", Yellow("ℹ"), Bold("HACKFUSION_AI_PROVIDER=ollama"))
	fmt.Println()
}

// Truncate keeps the first n lines of multi-line tool output
func Truncate(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n" + Gray(fmt.Sprintf("... %d more lines", len(lines)-n))
}
