package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/tools"
)

type sent struct {
	title, message string
}

func capture(n *Notifier, err error) *[]sent {
	var got []sent
	n.send = func(title, message, icon string) error {
		got = append(got, sent{title, message})
		return err
	}
	return &got
}

func TestRunFinished(t *testing.T) {
	n := New(true, zap.NewNop())
	got := capture(n, nil)

	res := tools.Success("", "nmap")
	res[tools.KeyVulnerabilities] = []string{"a", "b"}
	n.RunFinished(&plan.Run{
		Plan:    &plan.Plan{Category: "Vulnerability Analysis"},
		Results: []plan.ResultEntry{{Result: res}},
		Logs: []plan.LogEntry{
			{Status: plan.StatusSuccess},
			{Status: plan.StatusError},
		},
	})

	assert.Equal(t, []sent{{"HackFusion: Vulnerability Analysis complete", "2 steps, 1 failed, 2 findings"}}, *got)
}

func TestDisabledSendsNothing(t *testing.T) {
	n := New(false, nil)
	got := capture(n, nil)
	n.Send("title", "message")
	assert.Empty(t, *got)
}

func TestSendFailureIgnored(t *testing.T) {
	n := New(true, nil)
	got := capture(n, errors.New("no notification daemon"))
	assert.NotPanics(t, func() { n.Send("title", "message") })
	assert.Len(t, *got, 1)
}
