package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Params is a validated, family-specific parameter set
type Params interface {
	// Target is the host, URL or interface the tool runs against
	Target() string
	Validate() error
}

// InvalidParamsError is returned when a parameter mapping does not fit the family
type InvalidParamsError struct {
	Family Family
	Err    error
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid %s params: %v", e.Family, e.Err)
}

func (e *InvalidParamsError) Unwrap() error {
	return e.Err
}

var errTargetRequired = errors.New("target is required")

// decodeParams decodes a loose mapping into out. Scalars are weakly typed so
// "3" decodes into an int field; keys the family does not know are rejected.
func decodeParams(f Family, raw map[string]any, out Params) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return &InvalidParamsError{Family: f, Err: err}
	}
	if err := dec.Decode(raw); err != nil {
		return &InvalidParamsError{Family: f, Err: err}
	}
	if err := out.Validate(); err != nil {
		return &InvalidParamsError{Family: f, Err: err}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// HostParams carries just a target; used by whois and similar lookups
type HostParams struct {
	Host   string `json:"target"`
	Domain string `json:"domain"`
}

func (p *HostParams) Target() string { return firstNonEmpty(p.Host, p.Domain) }

func (p *HostParams) Validate() error {
	if p.Target() == "" {
		return errTargetRequired
	}
	return nil
}

// NmapParams configures an nmap scan. Nil pointers fall back to the defaults
// -A -sV -O -T4 -p-.
type NmapParams struct {
	Host           string `json:"target"`
	Ports          string `json:"ports"`
	TopPorts       int    `json:"top_ports"`
	Timing         *int   `json:"timing"`
	Aggressive     *bool  `json:"aggressive"`
	ServiceVersion *bool  `json:"version"`
	OSDetection    *bool  `json:"os"`
	Scripts        string `json:"scripts"`
	SkipDiscovery  bool   `json:"skip_discovery"`
}

func (p *NmapParams) Target() string { return strings.TrimSpace(p.Host) }

func (p *NmapParams) Validate() error {
	if p.Target() == "" {
		return errTargetRequired
	}
	if p.Timing != nil && (*p.Timing < 0 || *p.Timing > 5) {
		return fmt.Errorf("timing must be between 0 and 5, got %d", *p.Timing)
	}
	if p.Ports != "" && p.TopPorts > 0 {
		return errors.New("ports and top_ports are mutually exclusive")
	}
	return nil
}

// DNSEnumParams configures dnsenum
type DNSEnumParams struct {
	Domain  string `json:"target"`
	Reverse bool   `json:"reverse"`
	Threads int    `json:"threads"`
}

func (p *DNSEnumParams) Target() string { return strings.TrimSpace(p.Domain) }

func (p *DNSEnumParams) Validate() error {
	if p.Target() == "" {
		return errTargetRequired
	}
	if p.Threads < 0 {
		return fmt.Errorf("threads must be positive, got %d", p.Threads)
	}
	return nil
}

// NiktoParams configures nikto
type NiktoParams struct {
	Host   string `json:"target"`
	URL    string `json:"url"`
	SSL    bool   `json:"ssl"`
	Port   int    `json:"port"`
	Tuning string `json:"tuning"`
}

func (p *NiktoParams) Target() string { return firstNonEmpty(p.Host, p.URL) }

func (p *NiktoParams) Validate() error {
	if p.Target() == "" {
		return errTargetRequired
	}
	if p.Port < 0 || p.Port > 65535 {
		return fmt.Errorf("port out of range: %d", p.Port)
	}
	return nil
}

// SQLMapParams configures sqlmap
type SQLMapParams struct {
	Host  string `json:"target"`
	URL   string `json:"url"`
	Forms bool   `json:"forms"`
	Risk  int    `json:"risk"`
	Level int    `json:"level"`
	Data  string `json:"data"`
	Crawl int    `json:"crawl"`
}

func (p *SQLMapParams) Target() string { return firstNonEmpty(p.URL, p.Host) }

func (p *SQLMapParams) Validate() error {
	if p.Target() == "" {
		return errTargetRequired
	}
	if p.Risk != 0 && (p.Risk < 1 || p.Risk > 3) {
		return fmt.Errorf("risk must be between 1 and 3, got %d", p.Risk)
	}
	if p.Level != 0 && (p.Level < 1 || p.Level > 5) {
		return fmt.Errorf("level must be between 1 and 5, got %d", p.Level)
	}
	if p.Crawl < 0 {
		return fmt.Errorf("crawl depth must be positive, got %d", p.Crawl)
	}
	return nil
}

// DirbParams configures dirb
type DirbParams struct {
	Host       string `json:"target"`
	URL        string `json:"url"`
	Wordlist   string `json:"wordlist"`
	Extensions string `json:"extensions"`
}

func (p *DirbParams) Target() string { return firstNonEmpty(p.URL, p.Host) }

func (p *DirbParams) Validate() error {
	if p.Target() == "" {
		return errTargetRequired
	}
	return nil
}

// URLParams carries a single URL; used by wpscan, skipfish, xsser, sslyze and the CMS scanners
type URLParams struct {
	Host string `json:"target"`
	URL  string `json:"url"`
}

func (p *URLParams) Target() string { return firstNonEmpty(p.URL, p.Host) }

func (p *URLParams) Validate() error {
	if p.Target() == "" {
		return errTargetRequired
	}
	return nil
}

// InterfaceParams configures the wireless families
type InterfaceParams struct {
	Iface   string `json:"interface"`
	Host    string `json:"target"`
	Monitor bool   `json:"monitor"`
}

func (p *InterfaceParams) Target() string { return firstNonEmpty(p.Iface, p.Host) }

func (p *InterfaceParams) Validate() error {
	if p.Target() == "" {
		return errors.New("interface is required")
	}
	if strings.ContainsAny(p.Target(), " /;") {
		return fmt.Errorf("invalid interface name %q", p.Target())
	}
	return nil
}
