package menu

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/who0xac/hackfusion/pkg/config"
	"github.com/who0xac/hackfusion/pkg/scanner"
	"github.com/who0xac/hackfusion/pkg/tools"
)

type recordingRunner struct {
	commands []string
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) (tools.Output, error) {
	cmd := tools.CommandLine(name, args...)
	r.commands = append(r.commands, cmd)
	return tools.Output{Command: cmd, Stdout: "done"}, nil
}

func (r *recordingRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func newSession(t *testing.T, runner tools.Runner) *scanner.Session {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := config.DefaultConfig(t.TempDir())
	cfg.Notify.Enabled = false

	s, err := scanner.New(cfg, zap.NewNop(), "test", scanner.WithRunner(runner), scanner.WithoutStore())
	require.NoError(t, err)
	return s
}

func TestQuit(t *testing.T) {
	runner := &recordingRunner{}
	m := New(newSession(t, runner), strings.NewReader("q\n"), scanner.RunOptions{Quiet: true})
	require.NoError(t, m.Run(context.Background()))
	assert.Empty(t, runner.commands)
}

func TestEndOfInputExits(t *testing.T) {
	m := New(newSession(t, &recordingRunner{}), strings.NewReader(""), scanner.RunOptions{})
	assert.NoError(t, m.Run(context.Background()))
}

func TestInvalidChoiceIsAskedAgain(t *testing.T) {
	runner := &recordingRunner{}
	m := New(newSession(t, runner), strings.NewReader("9\nhello\nQ\n"), scanner.RunOptions{})
	require.NoError(t, m.Run(context.Background()))
	assert.Empty(t, runner.commands)
}

func TestAIChoiceRefusedWithoutService(t *testing.T) {
	runner := &recordingRunner{}
	m := New(newSession(t, runner), strings.NewReader("1\nq\n"), scanner.RunOptions{})
	require.NoError(t, m.Run(context.Background()))
	assert.Empty(t, runner.commands)
}

func TestInformationGathering(t *testing.T) {
	runner := &recordingRunner{}
	m := New(newSession(t, runner), strings.NewReader("2\nexample.com\nq\n"), scanner.RunOptions{})
	require.NoError(t, m.Run(context.Background()))

	require.Len(t, runner.commands, 3)
	assert.True(t, strings.HasPrefix(runner.commands[0], "nmap "))
	assert.Equal(t, "whois example.com", runner.commands[1])
	assert.True(t, strings.HasPrefix(runner.commands[2], "dnsenum "))
}

func TestEmptyTargetRunsNothing(t *testing.T) {
	runner := &recordingRunner{}
	m := New(newSession(t, runner), strings.NewReader("3\n\nq\n"), scanner.RunOptions{})
	require.NoError(t, m.Run(context.Background()))
	assert.Empty(t, runner.commands)
}

func TestWebSubmenu(t *testing.T) {
	runner := &recordingRunner{}
	m := New(newSession(t, runner), strings.NewReader("4\n3\nexample.com\n4\nb\nq\n"), scanner.RunOptions{})
	require.NoError(t, m.Run(context.Background()))

	require.Len(t, runner.commands, 1)
	assert.True(t, strings.HasPrefix(runner.commands[0], "sslyze "))
}
