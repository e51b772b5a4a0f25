package tools

import (
	"fmt"
	"regexp"
	"strings"
)

func wirelessInvokers(runner Runner) []Invoker {
	return []Invoker{
		&binaryInvoker{
			family:    Airmon,
			label:     "Airmon-ng",
			runner:    runner,
			newParams: func() Params { return &InterfaceParams{} },
			buildArgs: func(p Params) ([]string, error) {
				ip, ok := p.(*InterfaceParams)
				if !ok {
					return nil, wrongParams(Airmon, p)
				}
				if ip.Monitor {
					return []string{"start", ip.Target()}, nil
				}
				return nil, nil
			},
		},
		&binaryInvoker{
			family:    IWList,
			label:     "Wireless scan",
			runner:    runner,
			newParams: func() Params { return &InterfaceParams{} },
			buildArgs: func(p Params) ([]string, error) {
				return []string{p.Target(), "scanning"}, nil
			},
			parse: parseIWListOutput,
		},
	}
}

// Network is one access point reported by iwlist
type Network struct {
	BSSID      string
	ESSID      string
	Channel    string
	Quality    string
	Encryption string
}

var (
	cellPattern    = regexp.MustCompile(`Cell \d+ - Address: ([0-9A-Fa-f:]{17})`)
	essidPattern   = regexp.MustCompile(`ESSID:"(.*)"`)
	channelPattern = regexp.MustCompile(`Channel:(\d+)`)
	qualityPattern = regexp.MustCompile(`Quality=(\S+)`)
)

// ParseIWList splits iwlist scan output into networks
func ParseIWList(output string) []Network {
	var networks []Network
	var cur *Network
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if m := cellPattern.FindStringSubmatch(line); m != nil {
			networks = append(networks, Network{BSSID: m[1], Encryption: "open"})
			cur = &networks[len(networks)-1]
			continue
		}
		if cur == nil {
			continue
		}
		switch {
		case essidPattern.MatchString(line):
			cur.ESSID = essidPattern.FindStringSubmatch(line)[1]
		case channelPattern.MatchString(line):
			cur.Channel = channelPattern.FindStringSubmatch(line)[1]
		case qualityPattern.MatchString(line):
			cur.Quality = qualityPattern.FindStringSubmatch(line)[1]
		case line == "Encryption key:on" && cur.Encryption == "open":
			cur.Encryption = "WEP"
		case strings.Contains(line, "WPA2"):
			cur.Encryption = "WPA2"
		case strings.Contains(line, "WPA") && cur.Encryption != "WPA2":
			cur.Encryption = "WPA"
		}
	}
	return networks
}

// parseIWListOutput summarises access points and flags open or WEP networks
func parseIWListOutput(p Params, out Output) Result {
	networks := ParseIWList(out.Stdout)
	if len(networks) == 0 {
		return Success(out.Stdout, out.Command)
	}

	var b strings.Builder
	var summary []string
	var findings []string
	for _, n := range networks {
		name := n.ESSID
		if name == "" {
			name = "<hidden>"
		}
		line := fmt.Sprintf("%s [%s] ch %s quality %s %s", name, n.BSSID, n.Channel, n.Quality, n.Encryption)
		fmt.Fprintln(&b, line)
		summary = append(summary, line)
		if n.Encryption == "open" || n.Encryption == "WEP" {
			findings = append(findings, fmt.Sprintf("%s (%s) uses %s encryption", name, n.BSSID, n.Encryption))
		}
	}

	res := Success(b.String(), out.Command)
	res["networks"] = summary
	if len(findings) > 0 {
		res[KeyVulnerabilities] = findings
	}
	return res
}
