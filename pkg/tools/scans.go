package tools

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// NamedResult pairs a tool with the result it produced
type NamedResult struct {
	Tool   Family
	Result Result
}

// Scanner runs the fixed tool batches behind each menu category
type Scanner struct {
	Registry   *Registry
	HTTPClient *http.Client
}

// NewScanner creates a category scanner over a registry
func NewScanner(registry *Registry) *Scanner {
	return &Scanner{
		Registry: registry,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// InformationGathering runs nmap, whois and dnsenum against a target
func (s *Scanner) InformationGathering(ctx context.Context, target string) []NamedResult {
	return []NamedResult{
		{Nmap, s.Registry.Run(ctx, Nmap, map[string]any{"target": target})},
		{Whois, s.Registry.Run(ctx, Whois, map[string]any{"target": target})},
		{DNSEnum, s.Registry.Run(ctx, DNSEnum, map[string]any{"target": target})},
	}
}

// VulnerabilityAnalysis runs the nmap vuln scripts and nikto
func (s *Scanner) VulnerabilityAnalysis(ctx context.Context, target string) []NamedResult {
	return []NamedResult{
		{Nmap, s.Registry.Run(ctx, Nmap, map[string]any{
			"target":     target,
			"scripts":    "vuln",
			"aggressive": false,
			"os":         false,
			"top_ports":  1000,
		})},
		{Nikto, s.Registry.Run(ctx, Nikto, map[string]any{"target": target})},
	}
}

// WebApplication runs the web scanners; wpscan only runs when the target
// looks like WordPress
func (s *Scanner) WebApplication(ctx context.Context, target string, opts map[string]any) []NamedResult {
	nikto := map[string]any{"target": target}
	if v, ok := opts["ssl"]; ok {
		nikto["ssl"] = v
	}
	dirb := map[string]any{"target": target}
	if v, ok := opts["wordlist"]; ok {
		dirb["wordlist"] = v
	}
	sqlmap := map[string]any{"target": target}
	for _, k := range []string{"forms", "risk"} {
		if v, ok := opts[k]; ok {
			sqlmap[k] = v
		}
	}

	results := []NamedResult{
		{Nikto, s.Registry.Run(ctx, Nikto, nikto)},
		{Dirb, s.Registry.Run(ctx, Dirb, dirb)},
		{SQLMap, s.Registry.Run(ctx, SQLMap, sqlmap)},
	}
	if s.IsWordPress(ctx, target) {
		results = append(results, NamedResult{WPScan, s.Registry.Run(ctx, WPScan, map[string]any{"target": target})})
	}
	results = append(results, NamedResult{Skipfish, s.Registry.Run(ctx, Skipfish, map[string]any{"target": target})})
	return results
}

// XSS runs xsser against a URL
func (s *Scanner) XSS(ctx context.Context, target string) []NamedResult {
	return []NamedResult{{XSSer, s.Registry.Run(ctx, XSSer, map[string]any{"target": target})}}
}

// SSL runs sslyze against a URL
func (s *Scanner) SSL(ctx context.Context, target string) []NamedResult {
	return []NamedResult{{SSLyze, s.Registry.Run(ctx, SSLyze, map[string]any{"target": target})}}
}

// CMS runs cmsmap and cmseek against a URL
func (s *Scanner) CMS(ctx context.Context, target string) []NamedResult {
	return []NamedResult{
		{CMSMap, s.Registry.Run(ctx, CMSMap, map[string]any{"target": target})},
		{CMSeek, s.Registry.Run(ctx, CMSeek, map[string]any{"target": target})},
	}
}

// Wireless lists monitor-capable interfaces and scans for access points
func (s *Scanner) Wireless(ctx context.Context, iface string) []NamedResult {
	return []NamedResult{
		{Airmon, s.Registry.Run(ctx, Airmon, map[string]any{"interface": iface})},
		{IWList, s.Registry.Run(ctx, IWList, map[string]any{"interface": iface})},
	}
}

var wordpressPaths = []string{"/wp-login.php", "/wp-admin", "/wp-content"}

// IsWordPress probes common WordPress paths
func (s *Scanner) IsWordPress(ctx context.Context, target string) bool {
	base := strings.TrimRight(target, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	for _, path := range wordpressPaths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
		if err != nil {
			return false
		}
		resp, err := s.HTTPClient.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK, http.StatusMovedPermanently, http.StatusFound, http.StatusForbidden:
			return true
		}
	}
	return false
}
