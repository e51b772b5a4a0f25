package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func informationInvokers(runner Runner) []Invoker {
	return []Invoker{
		&binaryInvoker{
			family:    Nmap,
			label:     "Nmap scan",
			runner:    runner,
			newParams: func() Params { return &NmapParams{} },
			buildArgs: buildNmapArgs,
			parse:     parseNmapOutput,
		},
		&binaryInvoker{
			family:    Whois,
			label:     "WHOIS lookup",
			runner:    runner,
			newParams: func() Params { return &HostParams{} },
			buildArgs: func(p Params) ([]string, error) {
				return []string{p.Target()}, nil
			},
		},
		&binaryInvoker{
			family:    DNSEnum,
			label:     "DNS enumeration",
			runner:    runner,
			newParams: func() Params { return &DNSEnumParams{} },
			buildArgs: buildDNSEnumArgs,
		},
		&binaryInvoker{
			family:    Nikto,
			label:     "Nikto scan",
			runner:    runner,
			newParams: func() Params { return &NiktoParams{} },
			buildArgs: buildNiktoArgs,
			parse:     parseNiktoOutput,
		},
	}
}

// buildNmapArgs constructs Nmap command arguments. XML goes to stdout so the
// result can be parsed into services and NSE findings.
func buildNmapArgs(p Params) ([]string, error) {
	np, ok := p.(*NmapParams)
	if !ok {
		return nil, wrongParams(Nmap, p)
	}

	var args []string
	if boolOr(np.Aggressive, true) {
		args = append(args, "-A") // Aggressive scan
	}
	if boolOr(np.ServiceVersion, true) {
		args = append(args, "-sV") // Version detection
	}
	if boolOr(np.OSDetection, true) {
		args = append(args, "-O") // OS detection
	}
	timing := 4
	if np.Timing != nil {
		timing = *np.Timing
	}
	args = append(args, fmt.Sprintf("-T%d", timing))

	switch {
	case np.Ports != "":
		args = append(args, "-p", np.Ports)
	case np.TopPorts > 0:
		args = append(args, "--top-ports", strconv.Itoa(np.TopPorts))
	default:
		args = append(args, "-p-") // All ports
	}

	if np.Scripts != "" {
		args = append(args, "--script", np.Scripts)
	}
	if np.SkipDiscovery {
		args = append(args, "-Pn")
	}

	args = append(args, "-oX", "-", np.Target())
	return args, nil
}

func parseNmapOutput(p Params, out Output) Result {
	report, err := ParseNmapXML([]byte(out.Stdout))
	if err != nil {
		return Success(out.Stdout, out.Command)
	}

	res := Success(report.Text(), out.Command)
	res["hosts"] = len(report.Hosts)
	if len(report.Vulnerabilities) > 0 {
		res[KeyVulnerabilities] = report.Vulnerabilities
	}
	return res
}

func buildDNSEnumArgs(p Params) ([]string, error) {
	dp, ok := p.(*DNSEnumParams)
	if !ok {
		return nil, wrongParams(DNSEnum, p)
	}
	args := []string{"--nocolor"}
	if !dp.Reverse {
		args = append(args, "--noreverse")
	}
	if dp.Threads > 0 {
		args = append(args, "--threads", strconv.Itoa(dp.Threads))
	}
	return append(args, dp.Target()), nil
}

func buildNiktoArgs(p Params) ([]string, error) {
	np, ok := p.(*NiktoParams)
	if !ok {
		return nil, wrongParams(Nikto, p)
	}
	args := []string{"-h", np.Target(), "-Format", "json", "-o", "-"}
	if np.SSL {
		args = append(args, "-ssl")
	}
	if np.Port > 0 {
		args = append(args, "-p", strconv.Itoa(np.Port))
	}
	if np.Tuning != "" {
		args = append(args, "-Tuning", np.Tuning)
	}
	return args, nil
}

// niktoHost is one host entry of nikto's JSON report
type niktoHost struct {
	Host            string `json:"host"`
	IP              string `json:"ip"`
	Port            string `json:"port"`
	Banner          string `json:"banner"`
	Vulnerabilities []struct {
		ID     string `json:"id"`
		Method string `json:"method"`
		URL    string `json:"url"`
		Msg    string `json:"msg"`
	} `json:"vulnerabilities"`
}

// parseNiktoOutput decodes nikto's JSON report; raw text is kept when the
// output is not JSON
func parseNiktoOutput(p Params, out Output) Result {
	hosts, err := decodeNikto(out.Stdout)
	if err != nil {
		return Success(out.Stdout, out.Command)
	}

	var b strings.Builder
	var findings []string
	for _, h := range hosts {
		fmt.Fprintf(&b, "Host: %s (%s:%s) %s\n", h.Host, h.IP, h.Port, h.Banner)
		for _, v := range h.Vulnerabilities {
			line := fmt.Sprintf("%s %s: %s", v.Method, v.URL, v.Msg)
			fmt.Fprintf(&b, "  - %s\n", line)
			findings = append(findings, line)
		}
	}

	res := Success(b.String(), out.Command)
	if len(findings) > 0 {
		res[KeyVulnerabilities] = findings
	}
	return res
}

func decodeNikto(stdout string) ([]niktoHost, error) {
	data := []byte(strings.TrimSpace(stdout))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty output")
	}
	if data[0] == '[' {
		var hosts []niktoHost
		if err := json.Unmarshal(data, &hosts); err != nil {
			return nil, err
		}
		return hosts, nil
	}
	var host niktoHost
	if err := json.Unmarshal(data, &host); err != nil {
		return nil, err
	}
	return []niktoHost{host}, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
