package tools

import (
	"fmt"
	"strings"
)

// Family identifies one wrapped external executable
type Family string

// Known tool families
const (
	Nmap     Family = "nmap"
	Whois    Family = "whois"
	DNSEnum  Family = "dnsenum"
	Nikto    Family = "nikto"
	SQLMap   Family = "sqlmap"
	Dirb     Family = "dirb"
	WPScan   Family = "wpscan"
	Skipfish Family = "skipfish"
	XSSer    Family = "xsser"
	SSLyze   Family = "sslyze"
	CMSMap   Family = "cmsmap"
	CMSeek   Family = "cmseek"
	Airmon   Family = "airmon-ng"
	IWList   Family = "iwlist"
)

// Families lists every known family in display order
var Families = []Family{
	Nmap, Whois, DNSEnum, Nikto,
	SQLMap, Dirb, WPScan, Skipfish, XSSer, SSLyze, CMSMap, CMSeek,
	Airmon, IWList,
}

// lookup maps every accepted spelling to its family
var lookup = map[string]Family{
	"nmap":      Nmap,
	"whois":     Whois,
	"dnsenum":   DNSEnum,
	"dns":       DNSEnum,
	"nikto":     Nikto,
	"sqlmap":    SQLMap,
	"dirb":      Dirb,
	"wpscan":    WPScan,
	"skipfish":  Skipfish,
	"xsser":     XSSer,
	"sslyze":    SSLyze,
	"cmsmap":    CMSMap,
	"cmseek":    CMSeek,
	"airmon-ng": Airmon,
	"airmon":    Airmon,
	"iwlist":    IWList,
}

// UnknownToolError is returned when a name matches no family
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// ParseFamily resolves a tool name to its family
func ParseFamily(name string) (Family, error) {
	f, ok := lookup[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", &UnknownToolError{Name: name}
	}
	return f, nil
}

// Binary returns the executable name for the family
func (f Family) Binary() string {
	return string(f)
}

func (f Family) String() string {
	return string(f)
}
