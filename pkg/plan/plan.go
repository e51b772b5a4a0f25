package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/who0xac/hackfusion/pkg/tools"
)

// Plan is the reasoning service's answer to a user request: what to do and
// in which order
type Plan struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tools       []string `json:"tools"`
	Steps       []Step   `json:"steps"`
}

// Step is one unit of work bound to exactly one tool family
type Step struct {
	Tool        string         `json:"tool"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Params      map[string]any `json:"params"`
}

// Validate checks the structural requirements a usable plan must meet
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return errors.New("plan has no steps")
	}
	for i, s := range p.Steps {
		if strings.TrimSpace(s.Tool) == "" {
			return fmt.Errorf("step %d has no tool", i+1)
		}
	}
	return nil
}

// Label returns a human label for the step
func (s Step) Label() string {
	if s.Action != "" {
		return s.Action
	}
	return s.Tool
}

// Status is the state of one step in the execution log
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Terminal reports whether the status is final
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// LogEntry records one step's transition from attempted to succeeded or failed
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Step      int       `json:"step"`
	Action    string    `json:"action"`
	Tool      string    `json:"tool"`
	Status    Status    `json:"status"`
	Target    string    `json:"target,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ResultEntry is the outcome of one completed step
type ResultEntry struct {
	Step   Step         `json:"step"`
	Result tools.Result `json:"result"`
}

// Run is everything one plan execution produced
type Run struct {
	ID         string        `json:"id"`
	Plan       *Plan         `json:"plan"`
	Results    []ResultEntry `json:"results"`
	Logs       []LogEntry    `json:"logs"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Failed returns the log entries that ended in error
func (r *Run) Failed() []LogEntry {
	var failed []LogEntry
	for _, l := range r.Logs {
		if l.Status == StatusError {
			failed = append(failed, l)
		}
	}
	return failed
}

// Duration is the wall time of the run
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
