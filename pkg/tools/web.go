package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func webInvokers(runner Runner) []Invoker {
	urlParams := func() Params { return &URLParams{} }
	return []Invoker{
		&binaryInvoker{
			family:    SQLMap,
			label:     "SQLmap scan",
			runner:    runner,
			newParams: func() Params { return &SQLMapParams{} },
			buildArgs: buildSQLMapArgs,
			parse:     parseSQLMapOutput,
		},
		&binaryInvoker{
			family:    Dirb,
			label:     "Dirb scan",
			runner:    runner,
			newParams: func() Params { return &DirbParams{} },
			buildArgs: buildDirbArgs,
		},
		&binaryInvoker{
			family:    WPScan,
			label:     "WPScan",
			runner:    runner,
			newParams: urlParams,
			buildArgs: func(p Params) ([]string, error) {
				return []string{"--url", p.Target(), "--random-user-agent", "--format", "json"}, nil
			},
			parse: parseWPScanOutput,
			// wpscan exits 5 when it found vulnerabilities
			exitOK: []int{5},
		},
		&binaryInvoker{
			family:    Skipfish,
			label:     "Skipfish scan",
			runner:    runner,
			newParams: urlParams,
			buildArgs: func(p Params) ([]string, error) {
				dir, err := skipfishOutputDir(p.Target(), time.Now())
				if err != nil {
					return nil, err
				}
				return []string{"-o", dir, p.Target()}, nil
			},
			parse: func(p Params, out Output) Result {
				res := Success(out.Stdout, out.Command)
				if len(out.Args) > 1 && out.Args[0] == "-o" {
					res["output_dir"] = out.Args[1]
				}
				return res
			},
		},
		&binaryInvoker{
			family:    XSSer,
			label:     "XSS scan",
			runner:    runner,
			newParams: urlParams,
			buildArgs: func(p Params) ([]string, error) {
				return []string{"--url", p.Target(), "--auto"}, nil
			},
		},
		&binaryInvoker{
			family:    SSLyze,
			label:     "SSL scan",
			runner:    runner,
			newParams: urlParams,
			buildArgs: func(p Params) ([]string, error) {
				return []string{hostPort(p.Target()), "--json_out", "-"}, nil
			},
		},
		&binaryInvoker{
			family:    CMSMap,
			label:     "CMSmap scan",
			runner:    runner,
			newParams: urlParams,
			buildArgs: func(p Params) ([]string, error) {
				return []string{p.Target()}, nil
			},
		},
		&binaryInvoker{
			family:    CMSeek,
			label:     "CMSeek scan",
			runner:    runner,
			newParams: urlParams,
			buildArgs: func(p Params) ([]string, error) {
				return []string{"-u", p.Target(), "--batch"}, nil
			},
		},
	}
}

func buildSQLMapArgs(p Params) ([]string, error) {
	sp, ok := p.(*SQLMapParams)
	if !ok {
		return nil, wrongParams(SQLMap, p)
	}
	args := []string{"-u", sp.Target(), "--batch", "--random-agent"}
	if sp.Forms {
		args = append(args, "--forms")
	}
	if sp.Risk > 0 {
		args = append(args, "--risk", strconv.Itoa(sp.Risk))
	}
	if sp.Level > 0 {
		args = append(args, "--level", strconv.Itoa(sp.Level))
	}
	if sp.Data != "" {
		args = append(args, "--data", sp.Data)
	}
	if sp.Crawl > 0 {
		args = append(args, "--crawl", strconv.Itoa(sp.Crawl))
	}
	return args, nil
}

var sqlmapParamPattern = regexp.MustCompile(`(?m)^Parameter: (.+)$`)

// parseSQLMapOutput picks the injection points sqlmap reports
func parseSQLMapOutput(p Params, out Output) Result {
	res := Success(out.Stdout, out.Command)
	var findings []string
	for _, m := range sqlmapParamPattern.FindAllStringSubmatch(out.Stdout, -1) {
		findings = append(findings, fmt.Sprintf("SQL injection in parameter %s", strings.TrimSpace(m[1])))
	}
	if len(findings) > 0 {
		res[KeyVulnerabilities] = findings
	}
	return res
}

func buildDirbArgs(p Params) ([]string, error) {
	dp, ok := p.(*DirbParams)
	if !ok {
		return nil, wrongParams(Dirb, p)
	}
	args := []string{dp.Target()}
	if dp.Wordlist != "" {
		args = append(args, dp.Wordlist)
	}
	if dp.Extensions != "" {
		args = append(args, "-X", dp.Extensions)
	}
	return args, nil
}

type wpVulnerable struct {
	Vulnerabilities []struct {
		Title string `json:"title"`
	} `json:"vulnerabilities"`
}

type wpReport struct {
	Version *struct {
		Number string `json:"number"`
		wpVulnerable
	} `json:"version"`
	Plugins map[string]wpVulnerable `json:"plugins"`
}

// parseWPScanOutput lists version and plugin vulnerabilities from the JSON report
func parseWPScanOutput(p Params, out Output) Result {
	res := Success(out.Stdout, out.Command)

	var report wpReport
	if err := json.Unmarshal([]byte(out.Stdout), &report); err != nil {
		return res
	}

	var findings []string
	if report.Version != nil {
		for _, v := range report.Version.Vulnerabilities {
			findings = append(findings, fmt.Sprintf("WordPress %s: %s", report.Version.Number, v.Title))
		}
	}
	names := make([]string, 0, len(report.Plugins))
	for name := range report.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range report.Plugins[name].Vulnerabilities {
			findings = append(findings, fmt.Sprintf("plugin %s: %s", name, v.Title))
		}
	}
	if len(findings) > 0 {
		res[KeyVulnerabilities] = findings
	}
	return res
}

// skipfishOutputDir returns a fresh path for one skipfish run. skipfish
// refuses to write into an existing directory, so only the parent is created.
func skipfishOutputDir(target string, now time.Time) (string, error) {
	parent := filepath.Join(os.TempDir(), "skipfish-output")
	if err := os.MkdirAll(parent, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", parent, err)
	}
	name := fmt.Sprintf("%s_%s_%s", sanitizeName(target), now.Format("20060102_150405"), uuid.NewString()[:8])
	return filepath.Join(parent, name), nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeName(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	return strings.Trim(unsafeName.ReplaceAllString(s, "_"), "_")
}

// hostPort strips scheme and path from a URL; sslyze expects host[:port]
func hostPort(target string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(target, "https://"), "http://")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}
