package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ToolInvocationError is returned when a process cannot start or exits abnormally
type ToolInvocationError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolInvocationError) Error() string {
	if e.ExitCode > 0 {
		msg := strings.TrimSpace(e.Stderr)
		if msg == "" {
			msg = e.Err.Error()
		}
		return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, msg)
	}
	return fmt.Sprintf("failed to run %s: %v", e.Command, e.Err)
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}

// Output holds the captured streams of one process run
type Output struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
}

// Runner runs an external process to completion
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
	LookPath(name string) (string, error)
}

// ExecRunner runs processes with os/exec
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the binary and captures stdout/stderr. It blocks until the
// process exits; no timeout is applied beyond ctx.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	out := Output{Command: CommandLine(name, args...)}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()
	if err == nil {
		return out, nil
	}

	invErr := &ToolInvocationError{Command: out.Command, Stderr: out.Stderr, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		invErr.ExitCode = exitErr.ExitCode()
	}
	return out, invErr
}

// LookPath checks if a binary is installed
func (r *ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH", name)
	}
	return path, nil
}

// CommandLine renders a command and its arguments as one string
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
