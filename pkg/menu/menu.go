package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/who0xac/hackfusion/pkg/output/terminal"
	"github.com/who0xac/hackfusion/pkg/report"
	"github.com/who0xac/hackfusion/pkg/scanner"
)

var mainOptions = [][2]string{
	{"1", "AI Assistant (Natural Language Interface)"},
	{"2", "Information Gathering"},
	{"3", "Vulnerability Analysis"},
	{"4", "Web Application Analysis"},
	{"5", "Wireless Network Analysis"},
	{"q", "Quit"},
}

var webOptions = [][2]string{
	{"1", "Full scan (nikto, dirb, sqlmap, wpscan, skipfish)"},
	{"2", "XSS testing (xsser)"},
	{"3", "SSL/TLS analysis (sslyze)"},
	{"4", "CMS scanning (cmsmap, cmseek)"},
	{"b", "Back"},
}

// Menu is the interactive front end
type Menu struct {
	session *scanner.Session
	in      *bufio.Reader
	opts    scanner.RunOptions
}

// New creates a menu reading choices from in
func New(session *scanner.Session, in io.Reader, opts scanner.RunOptions) *Menu {
	return &Menu{
		session: session,
		in:      bufio.NewReader(in),
		opts:    opts,
	}
}

// Run shows the main menu until the user quits or input ends
func (m *Menu) Run(ctx context.Context) error {
	if ok, reason := m.session.AIAvailable(); !ok {
		terminal.PrintAINotAvailable(reason.Error())
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		terminal.ClearScreen()
		fmt.Println(terminal.MenuTable("HackFusion Menu", mainOptions))

		choice, err := m.choose("Enter your choice", mainOptions)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if choice == "q" {
			fmt.Println(terminal.Yellow("Goodbye!"))
			return nil
		}

		m.dispatch(ctx, choice)
		m.pause()
	}
}

// dispatch runs one main-menu choice. Failures are reported and the menu
// continues.
func (m *Menu) dispatch(ctx context.Context, choice string) {
	// Ctrl+C aborts the running operation and returns to the menu
	opCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var err error
	switch choice {
	case "1":
		if ok, _ := m.session.AIAvailable(); !ok {
			terminal.PrintError("Invalid choice or AI not available")
			return
		}
		err = m.aiMenu(opCtx)
	case "2":
		err = m.categoryMenu(opCtx, scanner.InformationGathering, "Enter target (IP, domain, or network range)")
	case "3":
		err = m.categoryMenu(opCtx, scanner.VulnerabilityAnalysis, "Enter target (IP or domain)")
	case "4":
		err = m.webMenu(opCtx)
	case "5":
		err = m.categoryMenu(opCtx, scanner.Wireless, "Enter wireless interface (e.g., wlan0)")
	}

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		terminal.PrintWarning("Interrupted, results discarded")
	default:
		terminal.PrintError(fmt.Sprintf("Error: %v", err))
	}
}

func (m *Menu) aiMenu(ctx context.Context) error {
	fmt.Println(terminal.Panel(terminal.Green("AI Assistant") + "\n\n" +
		"Describe what you want to do in natural language.\n" +
		"Examples:\n" +
		"- Scan a network for vulnerabilities\n" +
		"- Test a web application for SQL injection\n" +
		"- Check wireless networks for security issues"))

	request, err := m.prompt("What would you like to do")
	if err != nil {
		return err
	}
	if request == "" {
		return errors.New("request is empty")
	}

	out, err := m.session.RunAI(ctx, request, m.opts)
	if err != nil {
		if out == nil {
			return fmt.Errorf("AI Error: %w", err)
		}
		terminal.PrintError(err.Error())
	}

	_, _, findings := report.Summary(out.Run)
	terminal.PrintRunSummary(out.Run, findings)
	for _, f := range out.Files {
		terminal.PrintSuccess("Report saved to: " + f)
	}
	return nil
}

func (m *Menu) webMenu(ctx context.Context) error {
	fmt.Println(terminal.MenuTable("Web Application Analysis", webOptions))
	choice, err := m.choose("Enter your choice", webOptions)
	if err != nil || choice == "b" {
		return err
	}

	category := map[string]scanner.Category{
		"1": scanner.WebApplication,
		"2": scanner.XSS,
		"3": scanner.SSL,
		"4": scanner.CMS,
	}[choice]
	return m.categoryMenu(ctx, category, "Enter target URL")
}

func (m *Menu) categoryMenu(ctx context.Context, category scanner.Category, question string) error {
	target, err := m.prompt(question)
	if err != nil {
		return err
	}
	if target == "" {
		return errors.New("target is required")
	}

	terminal.PrintProgress(fmt.Sprintf("Running %s against %s...", category, target))
	results := m.session.CategoryScan(ctx, category, target)
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Println(terminal.ScanTable(string(category)+" Results", results))
	return nil
}

// choose prompts until the answer is one of options
func (m *Menu) choose(question string, options [][2]string) (string, error) {
	keys := make([]string, 0, len(options))
	for _, o := range options {
		keys = append(keys, o[0])
	}
	q := fmt.Sprintf("%s [%s]", question, strings.Join(keys, "/"))

	for {
		answer, err := m.prompt(q)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		for _, k := range keys {
			if answer == k {
				return k, nil
			}
		}
		terminal.PrintError("Please select one of the available options")
	}
}

// prompt reads one trimmed line. A final line without a newline is accepted.
func (m *Menu) prompt(question string) (string, error) {
	fmt.Printf("%s: ", terminal.Bold(question))
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// pause waits for Enter before the screen is cleared again
func (m *Menu) pause() {
	if !terminal.IsTTY() {
		return
	}
	fmt.Print(terminal.Gray("\nPress Enter to continue..."))
	_, _ = m.in.ReadString('\n')
}
