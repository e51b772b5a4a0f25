package assistant

import (
	"fmt"
	"strings"

	"github.com/who0xac/hackfusion/pkg/tools"
)

// toolParams documents the parameter names each family accepts
var toolParams = map[tools.Family]string{
	tools.Nmap:     "target, ports, top_ports, timing (0-5), aggressive, version, os, scripts, skip_discovery",
	tools.Whois:    "target",
	tools.DNSEnum:  "target, reverse, threads",
	tools.Nikto:    "target, ssl, port, tuning",
	tools.SQLMap:   "url, forms, risk (1-3), level (1-5), data, crawl",
	tools.Dirb:     "url, wordlist, extensions",
	tools.WPScan:   "url",
	tools.Skipfish: "url",
	tools.XSSer:    "url",
	tools.SSLyze:   "url",
	tools.CMSMap:   "url",
	tools.CMSeek:   "url",
	tools.Airmon:   "interface, monitor",
	tools.IWList:   "interface",
}

const planPromptHeader = `You are HackFusion's AI assistant for cybersecurity tasks. Given the user's request:
1. Analyze what they want to do
2. Recommend the most appropriate tools and techniques
3. Create a step-by-step action plan

Respond with a JSON object containing:
{
    "category": "Category of security testing",
    "description": "Brief description of what will be done",
    "tools": ["list", "of", "required", "tools"],
    "steps": [
        {
            "tool": "tool_name",
            "action": "What will be done",
            "description": "Detailed description",
            "params": {"param1": "value1"}
        }
    ]
}`

const refinePrompt = `You are HackFusion's AI assistant. Based on the current step requirements and previous results,
determine the optimal parameters for the next step. Consider:
1. Previous step results
2. Target type and characteristics
3. Security implications
4. Best practices

Use only the parameter names the step's tool accepts.
Respond with a JSON object containing the parameters.`

// buildPlanPrompt appends the tool catalogue so the plan only names tools
// the executor can resolve
func buildPlanPrompt() string {
	var b strings.Builder
	b.WriteString(planPromptHeader)
	b.WriteString("\n\nAvailable tools and their params (use these names exactly):\n")
	for _, f := range tools.Families {
		fmt.Fprintf(&b, "- %s: %s\n", f, toolParams[f])
	}
	return b.String()
}
