package checker

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/who0xac/hackfusion/pkg/output/terminal"
	"github.com/who0xac/hackfusion/pkg/tools"
)

// Tool represents an external tool requirement
type Tool struct {
	Family      tools.Family
	Required    bool
	Description string
	InstallURL  string
	// VersionArgs is tried first when reading the tool's version
	VersionArgs []string
}

// ToolStatus represents the installation status of a tool
type ToolStatus struct {
	Tool      Tool
	Installed bool
	Version   string
	Path      string
}

// GetRequiredTools returns the list of tools HackFusion can drive
func GetRequiredTools() []Tool {
	return []Tool{
		{Family: tools.Nmap, Required: true, Description: "Port scanning", InstallURL: "sudo apt install nmap", VersionArgs: []string{"--version"}},
		{Family: tools.Whois, Required: true, Description: "Registrar lookup", InstallURL: "sudo apt install whois", VersionArgs: []string{"--version"}},
		{Family: tools.DNSEnum, Required: true, Description: "DNS enumeration", InstallURL: "sudo apt install dnsenum", VersionArgs: []string{"--version"}},
		{Family: tools.Nikto, Required: true, Description: "Web server scanning", InstallURL: "sudo apt install nikto", VersionArgs: []string{"-Version"}},
		{Family: tools.SQLMap, Required: true, Description: "SQL injection testing", InstallURL: "sudo apt install sqlmap", VersionArgs: []string{"--version"}},
		{Family: tools.Dirb, Required: true, Description: "Content discovery", InstallURL: "sudo apt install dirb"},
		{Family: tools.WPScan, Required: false, Description: "WordPress scanning", InstallURL: "gem install wpscan", VersionArgs: []string{"--version"}},
		{Family: tools.Skipfish, Required: false, Description: "Web application crawling", InstallURL: "sudo apt install skipfish", VersionArgs: []string{"-h"}},
		{Family: tools.XSSer, Required: false, Description: "XSS testing", InstallURL: "sudo apt install xsser", VersionArgs: []string{"--version"}},
		{Family: tools.SSLyze, Required: false, Description: "TLS configuration analysis", InstallURL: "pip install sslyze", VersionArgs: []string{"--version"}},
		{Family: tools.CMSMap, Required: false, Description: "CMS scanning", InstallURL: "https://github.com/dionach/CMSmap"},
		{Family: tools.CMSeek, Required: false, Description: "CMS detection", InstallURL: "sudo apt install cmseek"},
		{Family: tools.Airmon, Required: false, Description: "Wireless monitor mode", InstallURL: "sudo apt install aircrack-ng"},
		{Family: tools.IWList, Required: false, Description: "Wireless scanning", InstallURL: "sudo apt install wireless-tools", VersionArgs: []string{"--version"}},
	}
}

// Checker looks up tools through a runner so checks can be faked in tests
type Checker struct {
	runner tools.Runner
}

// New creates a checker
func New(runner tools.Runner) *Checker {
	return &Checker{runner: runner}
}

// CheckTool checks if a tool is installed
func (c *Checker) CheckTool(ctx context.Context, tool Tool) ToolStatus {
	status := ToolStatus{
		Tool:      tool,
		Installed: false,
	}

	// Check if command exists
	path, err := c.runner.LookPath(tool.Family.Binary())
	if err != nil {
		return status
	}

	status.Installed = true
	status.Path = path
	status.Version = c.getToolVersion(ctx, tool)

	return status
}

// getToolVersion attempts to get the version of a tool
func (c *Checker) getToolVersion(ctx context.Context, tool Tool) string {
	if len(tool.VersionArgs) == 0 {
		return "installed"
	}

	out, err := c.runner.Run(ctx, tool.Family.Binary(), tool.VersionArgs...)
	output := out.Stdout
	if strings.TrimSpace(output) == "" {
		output = out.Stderr
	}
	if err != nil && strings.TrimSpace(output) == "" {
		return "installed"
	}

	for _, line := range strings.Split(output, "\n") {
		version := strings.TrimSpace(line)
		if version == "" {
			continue
		}
		// Limit to 80 characters
		if len(version) > 80 {
			version = version[:80] + "..."
		}
		return version
	}
	return "installed"
}

// CheckAllTools checks all known tools
func (c *Checker) CheckAllTools(ctx context.Context) []ToolStatus {
	list := GetRequiredTools()
	statuses := make([]ToolStatus, len(list))

	for i, tool := range list {
		statuses[i] = c.CheckTool(ctx, tool)
	}

	return statuses
}

// MissingRequired returns the required tools that are not installed
func MissingRequired(statuses []ToolStatus) []ToolStatus {
	var missing []ToolStatus
	for _, s := range statuses {
		if s.Tool.Required && !s.Installed {
			missing = append(missing, s)
		}
	}
	return missing
}

// PrintToolStatus prints the status of all tools
func PrintToolStatus(statuses []ToolStatus) {
	fmt.Printf("%s %s\n", terminal.Blue("→"), terminal.Bold("Checking installed tools..."))
	fmt.Println()

	installed := 0
	for _, required := range []bool{true, false} {
		if required {
			fmt.Println(terminal.Bold("REQUIRED TOOLS:"))
		} else {
			fmt.Println()
			fmt.Println(terminal.Bold("OPTIONAL TOOLS:"))
		}
		for _, status := range statuses {
			if status.Tool.Required != required {
				continue
			}
			if status.Installed {
				installed++
				fmt.Printf("  %s %-15s %s\n",
					terminal.Green("●"),
					terminal.Blue(status.Tool.Family.Binary()),
					terminal.White(status.Version))
				continue
			}
			dot := terminal.Yellow("●")
			if required {
				dot = terminal.Red("●")
			}
			fmt.Printf("  %s %-15s %s\n",
				dot,
				terminal.Blue(status.Tool.Family.Binary()),
				terminal.Red("NOT INSTALLED"))
			fmt.Printf("     %s %s\n",
				terminal.Yellow("→"),
				terminal.White("Install: "+status.Tool.InstallURL))
		}
	}

	// Print summary
	total := len(statuses)
	fmt.Println()
	fmt.Println(terminal.Blue(strings.Repeat("━", 60)))

	summary := terminal.Green
	if installed < total {
		summary = terminal.Yellow
	}
	fmt.Printf("%s %s/%d %s\n",
		terminal.Bold("SUMMARY:"),
		summary(fmt.Sprintf("%d", installed)),
		total,
		summary("tools installed"))

	fmt.Println(terminal.Blue(strings.Repeat("━", 60)))

	if missing := MissingRequired(statuses); len(missing) > 0 {
		fmt.Println()
		fmt.Printf("%s %s\n", terminal.Yellow("⚠"), terminal.Yellow("WARNING: Some required tools are missing!"))
		fmt.Printf("   %s\n", terminal.White("HackFusion may not work correctly without them."))
		fmt.Println()
	} else {
		fmt.Println()
		fmt.Printf("%s %s\n", terminal.Green("●"), terminal.Green("All required tools are installed!"))
		fmt.Println()
	}

	// Print OS info
	fmt.Printf("%s %s: %s\n",
		terminal.Blue("→"),
		terminal.Bold("Operating System"),
		terminal.White(fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
}

// AIStatus is the result of probing the reasoning service
type AIStatus struct {
	Provider  string
	Model     string
	Reachable bool
	HasModel  bool
	Err       error
}

// PrintAIStatus prints the reasoning-service check
func PrintAIStatus(s AIStatus) {
	fmt.Println()
	fmt.Printf("%s %s\n", terminal.Blue("→"), terminal.Bold("Checking AI assistant..."))

	switch {
	case s.Err != nil:
		fmt.Printf("  %s %-15s %s\n", terminal.Red("●"), terminal.Blue(s.Provider), terminal.Red(s.Err.Error()))
	case !s.Reachable:
		fmt.Printf("  %s %-15s %s\n", terminal.Red("●"), terminal.Blue(s.Provider), terminal.Red("NOT REACHABLE"))
	case !s.HasModel:
		fmt.Printf("  %s %-15s %s\n", terminal.Yellow("●"), terminal.Blue(s.Provider), terminal.Yellow("model "+s.Model+" not found"))
	default:
		fmt.Printf("  %s %-15s %s\n", terminal.Green("●"), terminal.Blue(s.Provider), terminal.White(s.Model))
	}
}
