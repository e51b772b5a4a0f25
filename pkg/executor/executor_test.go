package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/tools"
)

type rawParams map[string]any

func (p rawParams) Target() string {
	s, _ := p["target"].(string)
	return s
}

func (p rawParams) Validate() error {
	return nil
}

// fakeInvoker records what it was asked to decode and run
type fakeInvoker struct {
	family  tools.Family
	parsed  []map[string]any
	invoked int
	result  tools.Result
	onRun   func()
}

func (f *fakeInvoker) Family() tools.Family {
	return f.family
}

func (f *fakeInvoker) ParseParams(raw map[string]any) (tools.Params, error) {
	f.parsed = append(f.parsed, raw)
	return rawParams(raw), nil
}

func (f *fakeInvoker) Invoke(ctx context.Context, p tools.Params) tools.Result {
	f.invoked++
	if f.onRun != nil {
		f.onRun()
	}
	if f.result != nil {
		return f.result
	}
	return tools.Success("ok from "+string(f.family), string(f.family)+" "+p.Target())
}

type fakeRefiner struct {
	params map[string]any
	err    error
	seen   [][]plan.ResultEntry
}

func (f *fakeRefiner) RefineParams(ctx context.Context, step plan.Step, previous []plan.ResultEntry) (map[string]any, error) {
	f.seen = append(f.seen, previous)
	return f.params, f.err
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) StepStarted(index int, step plan.Step) {
	o.events = append(o.events, "start:"+step.Tool)
}

func (o *recordingObserver) StepFinished(index int, entry plan.LogEntry, result tools.Result) {
	o.events = append(o.events, "finish:"+entry.Tool+":"+string(entry.Status))
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func registryWith(invokers ...tools.Invoker) *tools.Registry {
	reg := tools.NewRegistry()
	for _, inv := range invokers {
		reg.Register(inv)
	}
	return reg
}

func TestExecuteAllStepsSucceed(t *testing.T) {
	nmap := &fakeInvoker{family: tools.Nmap}
	whois := &fakeInvoker{family: tools.Whois}
	obs := &recordingObserver{}
	e := New(registryWith(nmap, whois), WithClock(fixedClock()), WithObserver(obs))

	p := &plan.Plan{
		Category: "Information Gathering",
		Steps: []plan.Step{
			{Tool: "nmap", Action: "Port scan", Params: map[string]any{"target": "10.0.0.1"}},
			{Tool: "whois", Action: "Registrar lookup", Params: map[string]any{"target": "example.com"}},
		},
	}

	run, err := e.Execute(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, run.Logs, 2)
	require.Len(t, run.Results, 2)
	for i, l := range run.Logs {
		assert.Equal(t, i+1, l.Step)
		assert.Equal(t, plan.StatusSuccess, l.Status)
		assert.True(t, l.Status.Terminal())
	}
	assert.Equal(t, "10.0.0.1", run.Logs[0].Target)
	assert.Equal(t, "example.com", run.Logs[1].Target)
	assert.True(t, run.Logs[0].Timestamp.Before(run.Logs[1].Timestamp))
	assert.Equal(t, "ok from whois", run.Results[1].Result.Output())
	assert.NotEmpty(t, run.ID)
	assert.Empty(t, run.Failed())

	assert.Equal(t, []string{
		"start:nmap", "finish:nmap:success",
		"start:whois", "finish:whois:success",
	}, obs.events)
}

func TestExecuteUnknownToolDoesNotStopRun(t *testing.T) {
	nmap := &fakeInvoker{family: tools.Nmap}
	whois := &fakeInvoker{family: tools.Whois}
	e := New(registryWith(nmap, whois))

	p := &plan.Plan{Steps: []plan.Step{
		{Tool: "nmap", Params: map[string]any{"target": "10.0.0.1"}},
		{Tool: "metasploit", Action: "Exploit", Params: map[string]any{"target": "10.0.0.1"}},
		{Tool: "whois", Params: map[string]any{"target": "10.0.0.1"}},
	}}

	run, err := e.Execute(context.Background(), p)
	require.NoError(t, err)

	statuses := make([]plan.Status, 0, len(run.Logs))
	for _, l := range run.Logs {
		statuses = append(statuses, l.Status)
	}
	assert.Equal(t, []plan.Status{plan.StatusSuccess, plan.StatusError, plan.StatusSuccess}, statuses)

	require.Len(t, run.Results, 3)
	assert.Equal(t, tools.Result{tools.KeyError: "unknown tool: metasploit"}, run.Results[1].Result)
	assert.Equal(t, "unknown tool: metasploit", run.Logs[1].Error)
	assert.Equal(t, 1, nmap.invoked)
	assert.Equal(t, 1, whois.invoked)

	failed := run.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 2, failed[0].Step)
}

func TestExecuteFailedResultIsError(t *testing.T) {
	nikto := &fakeInvoker{family: tools.Nikto, result: tools.Failure("Nikto scan failed: exit status 1")}
	e := New(registryWith(nikto))

	run, err := e.Execute(context.Background(), &plan.Plan{Steps: []plan.Step{
		{Tool: "nikto", Params: map[string]any{"target": "10.0.0.1"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, plan.StatusError, run.Logs[0].Status)
	assert.Equal(t, "Nikto scan failed: exit status 1", run.Logs[0].Error)
}

func TestExecuteRefinerReplacesParams(t *testing.T) {
	nmap := &fakeInvoker{family: tools.Nmap}
	sqlmap := &fakeInvoker{family: tools.SQLMap}
	refiner := &fakeRefiner{params: map[string]any{"risk": "3"}}
	e := New(registryWith(nmap, sqlmap), WithRefiner(refiner))

	p := &plan.Plan{Steps: []plan.Step{
		{Tool: "nmap", Params: map[string]any{"target": "10.0.0.1"}},
		{Tool: "sqlmap", Params: map[string]any{"forms": true}},
	}}

	run, err := e.Execute(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, sqlmap.parsed, 1)
	assert.Equal(t, map[string]any{"risk": "3"}, sqlmap.parsed[0])
	assert.NotContains(t, sqlmap.parsed[0], "forms")
	assert.Equal(t, map[string]any{"risk": "3"}, run.Results[1].Step.Params)

	require.Len(t, refiner.seen, 2)
	assert.Empty(t, refiner.seen[0])
	require.Len(t, refiner.seen[1], 1)
	assert.Equal(t, "nmap", refiner.seen[1][0].Step.Tool)
}

func TestExecuteRefinerFailure(t *testing.T) {
	nmap := &fakeInvoker{family: tools.Nmap}
	refiner := &fakeRefiner{err: errors.New("error getting nmap step parameters: 503")}
	e := New(registryWith(nmap), WithRefiner(refiner))

	run, err := e.Execute(context.Background(), &plan.Plan{Steps: []plan.Step{
		{Tool: "nmap", Params: map[string]any{"target": "10.0.0.1"}},
	}})
	require.NoError(t, err)

	assert.Zero(t, nmap.invoked)
	assert.Equal(t, plan.StatusError, run.Logs[0].Status)
	assert.Contains(t, run.Results[0].Result.Err(), "503")
}

func TestExecuteInvalidParamsNotDispatched(t *testing.T) {
	runner := &countingRunner{}
	e := New(tools.DefaultRegistry(runner))

	run, err := e.Execute(context.Background(), &plan.Plan{Steps: []plan.Step{
		{Tool: "nmap", Params: map[string]any{"target": "10.0.0.1", "timing": 9}},
		{Tool: "sqlmap", Params: map[string]any{"url": "http://10.0.0.1/", "bogus": 1}},
	}})
	require.NoError(t, err)

	assert.Zero(t, runner.calls)
	for _, l := range run.Logs {
		assert.Equal(t, plan.StatusError, l.Status)
	}
	assert.Contains(t, run.Logs[0].Error, "timing")
	assert.Contains(t, run.Logs[1].Error, "bogus")
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nmap := &fakeInvoker{family: tools.Nmap, onRun: cancel}
	whois := &fakeInvoker{family: tools.Whois}
	e := New(registryWith(nmap, whois))

	run, err := e.Execute(ctx, &plan.Plan{Steps: []plan.Step{
		{Tool: "nmap", Params: map[string]any{"target": "10.0.0.1"}},
		{Tool: "whois", Params: map[string]any{"target": "10.0.0.1"}},
	}})
	assert.Nil(t, run)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, whois.invoked)
}

type countingRunner struct {
	calls int
}

func (r *countingRunner) Run(ctx context.Context, name string, args ...string) (tools.Output, error) {
	r.calls++
	return tools.Output{Command: tools.CommandLine(name, args...)}, nil
}

func (r *countingRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}
