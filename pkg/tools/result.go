package tools

import (
	"fmt"
	"sort"
)

// Result keys shared by every family
const (
	KeyOutput          = "output"
	KeyCommand         = "command"
	KeyError           = "error"
	KeyVulnerabilities = "vulnerabilities"
)

// Result is the mapping a tool invocation returns: either
// {output, command, ...} or {error}.
type Result map[string]any

// Success builds a result from captured output
func Success(output, command string) Result {
	return Result{
		KeyOutput:  output,
		KeyCommand: command,
	}
}

// Failure builds an error result
func Failure(format string, args ...any) Result {
	return Result{KeyError: fmt.Sprintf(format, args...)}
}

// Failed reports whether the result carries an error key
func (r Result) Failed() bool {
	_, ok := r[KeyError]
	return ok
}

// Err returns the error message, or "" when the result succeeded
func (r Result) Err() string {
	v, ok := r[KeyError]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// Output returns the captured output as text
func (r Result) Output() string {
	v, ok := r[KeyOutput]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Vulnerabilities returns the findings attached to the result
func (r Result) Vulnerabilities() []string {
	switch v := r[KeyVulnerabilities].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}

// Keys returns the result keys in sorted order
func (r Result) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
