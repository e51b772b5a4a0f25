package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/who0xac/hackfusion/pkg/tools"
)

// fakeRunner reports only the listed binaries as installed
type fakeRunner struct {
	installed map[string]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (tools.Output, error) {
	version, ok := f.installed[name]
	if !ok {
		return tools.Output{}, errors.New("not found")
	}
	return tools.Output{Command: tools.CommandLine(name, args...), Stderr: version}, nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if _, ok := f.installed[name]; !ok {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

func TestCheckAllTools(t *testing.T) {
	runner := &fakeRunner{installed: map[string]string{
		"nmap":   "\nNmap version 7.94 ( https://nmap.org )\nPlatform: x86_64",
		"sqlmap": "1.8.2#stable",
		"dirb":   "",
	}}
	statuses := New(runner).CheckAllTools(context.Background())
	require.Len(t, statuses, len(tools.Families))

	byName := map[tools.Family]ToolStatus{}
	for _, s := range statuses {
		byName[s.Tool.Family] = s
	}

	assert.True(t, byName[tools.Nmap].Installed)
	assert.Equal(t, "Nmap version 7.94 ( https://nmap.org )", byName[tools.Nmap].Version)
	assert.Equal(t, "/usr/bin/nmap", byName[tools.Nmap].Path)
	assert.Equal(t, "1.8.2#stable", byName[tools.SQLMap].Version)
	assert.Equal(t, "installed", byName[tools.Dirb].Version)
	assert.False(t, byName[tools.Whois].Installed)

	missing := MissingRequired(statuses)
	names := make([]tools.Family, 0, len(missing))
	for _, m := range missing {
		names = append(names, m.Tool.Family)
	}
	assert.ElementsMatch(t, []tools.Family{tools.Whois, tools.DNSEnum, tools.Nikto}, names)
}

func TestEveryFamilyIsChecked(t *testing.T) {
	seen := map[tools.Family]bool{}
	for _, tool := range GetRequiredTools() {
		seen[tool.Family] = true
	}
	for _, f := range tools.Families {
		assert.True(t, seen[f], "no check for %s", f)
	}
}
