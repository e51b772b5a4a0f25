package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/who0xac/hackfusion/pkg/tools"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a\nb", Truncate("a\nb\n", 2))

	out := Truncate("1\n2\n3\n4\n5", 2)
	assert.True(t, strings.HasPrefix(out, "1\n2\n"))
	assert.Contains(t, out, "3 more lines")
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "error: nmap failed: exit status 1", summarize(tools.Failure("nmap failed: exit status 1")))

	r := tools.Success("\x1b[32m+ OSVDB-3092: /admin/\x1b[0m\n", "nikto -h 10.0.0.5")
	r[tools.KeyVulnerabilities] = []string{"GET /admin/: directory indexing"}
	r["hosts"] = 1

	got := summarize(r)
	assert.Equal(t, "$ nikto -h 10.0.0.5\nhosts: 1\n1 findings:\n  - GET /admin/: directory indexing\n+ OSVDB-3092: /admin/", got)
}

func TestScanTableRendersEveryTool(t *testing.T) {
	out := ScanTable("Information Gathering Results", []tools.NamedResult{
		{Tool: "nmap", Result: tools.Success("22/tcp open ssh", "nmap 10.0.0.1")},
		{Tool: "whois", Result: tools.Failure("WHOIS lookup failed: not found")},
	})
	assert.Contains(t, out, "Information Gathering Results")
	assert.Contains(t, out, "nmap")
	assert.Contains(t, out, "whois")
	assert.Contains(t, out, "WHOIS lookup failed")
}

func TestMenuTable(t *testing.T) {
	out := MenuTable("HackFusion Menu", [][2]string{{"1", "AI Assistant"}, {"q", "Quit"}})
	assert.Contains(t, out, "HackFusion Menu")
	assert.Contains(t, out, "AI Assistant")
	assert.Contains(t, out, "Quit")
}
