package tools

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// nmapRun represents the root of Nmap XML output
type nmapRun struct {
	XMLName xml.Name   `xml:"nmaprun"`
	Args    string     `xml:"args,attr"`
	Hosts   []nmapHost `xml:"host"`
}

type nmapHost struct {
	Status    nmapState      `xml:"status"`
	Address   []nmapAddress  `xml:"address"`
	Hostnames []nmapHostName `xml:"hostnames>hostname"`
	Ports     []nmapPort     `xml:"ports>port"`
	OS        []nmapOSMatch  `xml:"os>osmatch"`
	Scripts   []nmapScript   `xml:"hostscript>script"`
}

type nmapAddress struct {
	Addr     string `xml:"addr,attr"`
	AddrType string `xml:"addrtype,attr"`
}

type nmapHostName struct {
	Name string `xml:"name,attr"`
}

type nmapPort struct {
	Protocol string       `xml:"protocol,attr"`
	PortID   string       `xml:"portid,attr"`
	State    nmapState    `xml:"state"`
	Service  nmapService  `xml:"service"`
	Scripts  []nmapScript `xml:"script"`
}

type nmapState struct {
	State  string `xml:"state,attr"`
	Reason string `xml:"reason,attr"`
}

type nmapService struct {
	Name      string `xml:"name,attr"`
	Product   string `xml:"product,attr"`
	Version   string `xml:"version,attr"`
	ExtraInfo string `xml:"extrainfo,attr"`
}

type nmapScript struct {
	ID     string      `xml:"id,attr"`
	Output string      `xml:"output,attr"`
	Tables []nmapTable `xml:"table"`
	Elems  []nmapElem  `xml:"elem"`
}

type nmapTable struct {
	Key   string      `xml:"key,attr"`
	Elems []nmapElem  `xml:"elem"`
	Inner []nmapTable `xml:"table"`
}

type nmapElem struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type nmapOSMatch struct {
	Name     string `xml:"name,attr"`
	Accuracy string `xml:"accuracy,attr"`
}

// HostInfo represents a scanned host with OS detection
type HostInfo struct {
	Address  string
	Hostname string
	OS       string
	Accuracy string
	Services []ServiceInfo
}

// ServiceInfo represents a discovered open port
type ServiceInfo struct {
	Port      int
	Protocol  string
	Service   string
	Product   string
	Version   string
	ExtraInfo string
}

// NmapReport is the parsed form of one nmap run
type NmapReport struct {
	Hosts           []HostInfo
	Vulnerabilities []string
}

var cvePattern = regexp.MustCompile(`CVE-[1-9][0-9]{3}-[0-9]{4,}`)

// ParseNmapXML parses Nmap XML output into hosts and vulnerability findings
func ParseNmapXML(data []byte) (*NmapReport, error) {
	var run nmapRun
	if err := xml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse nmap xml: %w", err)
	}

	report := &NmapReport{}
	seen := make(map[string]bool)
	addVuln := func(v string) {
		if !seen[v] {
			seen[v] = true
			report.Vulnerabilities = append(report.Vulnerabilities, v)
		}
	}

	for _, h := range run.Hosts {
		host := HostInfo{}
		for _, addr := range h.Address {
			if addr.AddrType == "ipv4" || addr.AddrType == "ipv6" {
				host.Address = addr.Addr
				break
			}
		}
		if host.Address == "" {
			continue
		}
		if len(h.Hostnames) > 0 {
			host.Hostname = h.Hostnames[0].Name
		}
		if len(h.OS) > 0 {
			host.OS = h.OS[0].Name
			host.Accuracy = h.OS[0].Accuracy
		}

		for _, p := range h.Ports {
			if p.State.State != "open" {
				continue
			}
			portNum, _ := strconv.Atoi(p.PortID)
			host.Services = append(host.Services, ServiceInfo{
				Port:      portNum,
				Protocol:  p.Protocol,
				Service:   p.Service.Name,
				Product:   p.Service.Product,
				Version:   p.Service.Version,
				ExtraInfo: p.Service.ExtraInfo,
			})

			for _, s := range p.Scripts {
				for _, v := range scriptFindings(s) {
					addVuln(fmt.Sprintf("%s:%d/%s %s", host.Address, portNum, p.Protocol, v))
				}
			}
		}

		for _, s := range h.Scripts {
			for _, v := range scriptFindings(s) {
				addVuln(fmt.Sprintf("%s %s", host.Address, v))
			}
		}

		report.Hosts = append(report.Hosts, host)
	}

	return report, nil
}

// scriptFindings extracts CVE IDs and "VULNERABLE" verdicts from an NSE script
func scriptFindings(s nmapScript) []string {
	var cves []string
	cves = append(cves, cvePattern.FindAllString(s.Output, -1)...)
	cves = append(cves, cvesFromElems(s.Elems)...)
	for _, t := range s.Tables {
		cves = append(cves, cvesFromTable(t)...)
	}

	var findings []string
	if len(cves) > 0 {
		sort.Strings(cves)
		cves = dedupe(cves)
		for _, c := range cves {
			findings = append(findings, fmt.Sprintf("%s (%s)", c, s.ID))
		}
		return findings
	}

	if strings.Contains(s.Output, "VULNERABLE:") && !strings.Contains(s.Output, "NOT VULNERABLE") {
		findings = append(findings, s.ID)
	}
	return findings
}

func cvesFromTable(t nmapTable) []string {
	var out []string
	if cvePattern.MatchString(t.Key) {
		out = append(out, cvePattern.FindString(t.Key))
	}
	out = append(out, cvesFromElems(t.Elems)...)
	for _, inner := range t.Inner {
		out = append(out, cvesFromTable(inner)...)
	}
	return out
}

func cvesFromElems(elems []nmapElem) []string {
	var out []string
	for _, e := range elems {
		if e.Key == "id" || e.Key == "cveid" || strings.HasPrefix(e.Value, "CVE-") {
			out = append(out, cvePattern.FindAllString(e.Value, -1)...)
		}
	}
	return out
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

// Text renders the parsed report as human-readable lines
func (r *NmapReport) Text() string {
	var b strings.Builder
	for _, h := range r.Hosts {
		name := h.Address
		if h.Hostname != "" {
			name = fmt.Sprintf("%s (%s)", h.Hostname, h.Address)
		}
		fmt.Fprintf(&b, "Host: %s\n", name)
		if h.OS != "" {
			fmt.Fprintf(&b, "  OS: %s (%s%%)\n", h.OS, h.Accuracy)
		}
		if len(h.Services) == 0 {
			fmt.Fprintf(&b, "  No open ports\n")
		}
		for _, s := range h.Services {
			desc := strings.TrimSpace(strings.Join([]string{s.Product, s.Version, s.ExtraInfo}, " "))
			fmt.Fprintf(&b, "  %d/%s  %-12s %s\n", s.Port, s.Protocol, s.Service, desc)
		}
	}
	if len(r.Vulnerabilities) > 0 {
		fmt.Fprintf(&b, "Findings:\n")
		for _, v := range r.Vulnerabilities {
			fmt.Fprintf(&b, "  - %s\n", v)
		}
	}
	return b.String()
}
