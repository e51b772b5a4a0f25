package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	stdout string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	return Output{Command: CommandLine(name, args...), Stdout: f.stdout}, f.err
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		name     string
		expected Family
	}{
		{"nmap", Nmap},
		{"  SQLMap ", SQLMap},
		{"airmon", Airmon},
		{"airmon-ng", Airmon},
		{"dns", DNSEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFamily(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}

	_, err := ParseFamily("metasploit")
	var unknown *UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "metasploit", unknown.Name)
	assert.Equal(t, "unknown tool: metasploit", err.Error())
}

func TestDefaultRegistryCoversEveryFamily(t *testing.T) {
	reg := DefaultRegistry(&fakeRunner{})
	for _, f := range Families {
		inv, ok := reg.Get(f)
		require.True(t, ok, "missing invoker for %s", f)
		assert.Equal(t, f, inv.Family())
	}
}

func TestNmapDefaultArgs(t *testing.T) {
	runner := &fakeRunner{}
	reg := DefaultRegistry(runner)

	res := reg.Run(context.Background(), Nmap, map[string]any{"target": "10.0.0.1"})
	require.False(t, res.Failed(), res.Err())
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "nmap", runner.calls[0].name)
	assert.Equal(t, []string{"-A", "-sV", "-O", "-T4", "-p-", "-oX", "-", "10.0.0.1"}, runner.calls[0].args)
}

func TestNmapCustomArgs(t *testing.T) {
	runner := &fakeRunner{}
	reg := DefaultRegistry(runner)

	res := reg.Run(context.Background(), Nmap, map[string]any{
		"target":     "example.com",
		"ports":      "22,80",
		"timing":     "2",
		"aggressive": false,
		"os":         "false",
		"scripts":    "vuln",
	})
	require.False(t, res.Failed(), res.Err())
	assert.Equal(t, []string{"-sV", "-T2", "-p", "22,80", "--script", "vuln", "-oX", "-", "example.com"}, runner.calls[0].args)
}

func TestParamsValidation(t *testing.T) {
	reg := DefaultRegistry(&fakeRunner{})
	tests := []struct {
		name   string
		family Family
		raw    map[string]any
	}{
		{"missing target", Nmap, map[string]any{"ports": "80"}},
		{"timing out of range", Nmap, map[string]any{"target": "a", "timing": 9}},
		{"unknown key", SQLMap, map[string]any{"target": "http://a", "tamper": "space2comment"}},
		{"risk out of range", SQLMap, map[string]any{"target": "http://a", "risk": 7}},
		{"bad interface", IWList, map[string]any{"interface": "wlan0; rm"}},
		{"wrong type", Nikto, map[string]any{"target": "a", "port": "eighty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := reg.Get(tt.family)
			require.True(t, ok)
			_, err := inv.ParseParams(tt.raw)
			var invalid *InvalidParamsError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.family, invalid.Family)
		})
	}
}

func TestSQLMapWeakTyping(t *testing.T) {
	inv, _ := DefaultRegistry(&fakeRunner{}).Get(SQLMap)
	p, err := inv.ParseParams(map[string]any{"url": "http://t/?id=1", "risk": "3", "forms": "true"})
	require.NoError(t, err)

	sp := p.(*SQLMapParams)
	assert.Equal(t, 3, sp.Risk)
	assert.True(t, sp.Forms)
	assert.Equal(t, "http://t/?id=1", sp.Target())
}

func TestSQLMapFindings(t *testing.T) {
	runner := &fakeRunner{stdout: "sqlmap identified the following injection point(s):\n---\nParameter: id (GET)\n    Type: boolean-based blind\n---\n"}
	res := DefaultRegistry(runner).Run(context.Background(), SQLMap, map[string]any{"target": "http://t/?id=1", "forms": true, "risk": 2})

	require.False(t, res.Failed())
	assert.Equal(t, []string{"-u", "http://t/?id=1", "--batch", "--random-agent", "--forms", "--risk", "2"}, runner.calls[0].args)
	assert.Equal(t, []string{"SQL injection in parameter id (GET)"}, res.Vulnerabilities())
}

func TestInvocationFailureBecomesErrorKey(t *testing.T) {
	runner := &fakeRunner{err: &ToolInvocationError{Command: "whois x", ExitCode: 1, Stderr: "no match"}}
	res := DefaultRegistry(runner).Run(context.Background(), Whois, map[string]any{"target": "x"})

	require.True(t, res.Failed())
	assert.Contains(t, res.Err(), "WHOIS lookup failed")
	assert.Contains(t, res.Err(), "no match")
}

func TestToolInvocationErrorMessage(t *testing.T) {
	err := &ToolInvocationError{Command: "nikto -h x", Err: errors.New("executable file not found in $PATH")}
	assert.Equal(t, "failed to run nikto -h x: executable file not found in $PATH", err.Error())
	assert.ErrorContains(t, err, "not found")
}

func TestNiktoJSONParsing(t *testing.T) {
	runner := &fakeRunner{stdout: `[{"host":"t","ip":"1.2.3.4","port":"80","banner":"nginx","vulnerabilities":[{"id":"1","method":"GET","url":"/admin/","msg":"Admin directory found"}]}]`}
	res := DefaultRegistry(runner).Run(context.Background(), Nikto, map[string]any{"target": "t", "ssl": true})

	require.False(t, res.Failed())
	assert.Contains(t, runner.calls[0].args, "-ssl")
	assert.Equal(t, []string{"GET /admin/: Admin directory found"}, res.Vulnerabilities())
	assert.Contains(t, res.Output(), "Host: t (1.2.3.4:80) nginx")
}

func TestNiktoRawFallback(t *testing.T) {
	runner := &fakeRunner{stdout: "- Nikto v2.5.0\n+ Target IP: 1.2.3.4\n"}
	res := DefaultRegistry(runner).Run(context.Background(), Nikto, map[string]any{"target": "t"})

	assert.Equal(t, runner.stdout, res.Output())
	assert.Nil(t, res.Vulnerabilities())
}

func TestScannerIsWordPress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wp-admin" {
			http.Redirect(w, r, "/wp-login.php", http.StatusFound)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewScanner(DefaultRegistry(&fakeRunner{}))
	assert.True(t, s.IsWordPress(context.Background(), srv.URL))

	plain := httptest.NewServer(http.NotFoundHandler())
	defer plain.Close()
	assert.False(t, s.IsWordPress(context.Background(), plain.URL))
}

func TestWebApplicationSkipsWPScan(t *testing.T) {
	plain := httptest.NewServer(http.NotFoundHandler())
	defer plain.Close()

	runner := &fakeRunner{}
	s := NewScanner(DefaultRegistry(runner))
	results := s.WebApplication(context.Background(), plain.URL, map[string]any{"forms": true})

	var tools []Family
	for _, r := range results {
		tools = append(tools, r.Tool)
	}
	assert.Equal(t, []Family{Nikto, Dirb, SQLMap, Skipfish}, tools)
	assert.Contains(t, runner.calls[2].args, "--forms")
}

const wpscanReport = `{
	"version": {"number": "5.8.1", "vulnerabilities": [{"title": "WP < 5.8.3 - SQL Injection via WP_Query"}]},
	"plugins": {"contact-form-7": {"vulnerabilities": []}}
}`

func TestWPScanVulnerableExitKeepsFindings(t *testing.T) {
	runner := &fakeRunner{
		stdout: wpscanReport,
		err:    &ToolInvocationError{Command: "wpscan", ExitCode: 5, Err: errors.New("exit status 5")},
	}
	res := DefaultRegistry(runner).Run(context.Background(), WPScan, map[string]any{"url": "http://blog.local"})

	require.False(t, res.Failed(), res.Err())
	assert.Equal(t, []string{"WordPress 5.8.1: WP < 5.8.3 - SQL Injection via WP_Query"}, res.Vulnerabilities())
	assert.Equal(t, wpscanReport, res.Output())
}

func TestWPScanOtherExitCodesFail(t *testing.T) {
	runner := &fakeRunner{
		stdout: wpscanReport,
		err:    &ToolInvocationError{Command: "wpscan", ExitCode: 4, Err: errors.New("exit status 4")},
	}
	res := DefaultRegistry(runner).Run(context.Background(), WPScan, map[string]any{"url": "http://blog.local"})
	assert.True(t, res.Failed())
	assert.Empty(t, res.Vulnerabilities())

	// exit 5 from a family that does not list it is still a failure
	runner.err = &ToolInvocationError{Command: "dirb", ExitCode: 5, Err: errors.New("exit status 5")}
	res = DefaultRegistry(runner).Run(context.Background(), Dirb, map[string]any{"url": "http://blog.local"})
	assert.True(t, res.Failed())
}

func TestSkipfishUsesFreshOutputDir(t *testing.T) {
	runner := &fakeRunner{stdout: "done"}
	registry := DefaultRegistry(runner)

	first := registry.Run(context.Background(), Skipfish, map[string]any{"url": "http://target.local"})
	second := registry.Run(context.Background(), Skipfish, map[string]any{"url": "http://target.local"})
	require.False(t, first.Failed(), first.Err())
	require.False(t, second.Failed(), second.Err())

	dir1, _ := first["output_dir"].(string)
	dir2, _ := second["output_dir"].(string)
	require.NotEmpty(t, dir1)
	assert.NotEqual(t, dir1, dir2)
	assert.Equal(t, []string{"-o", dir1, "http://target.local"}, runner.calls[0].args)

	assert.DirExists(t, filepath.Dir(dir1))
	assert.NoDirExists(t, dir1)
	assert.Contains(t, filepath.Base(dir1), "target.local_")
}
