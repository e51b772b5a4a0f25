package executor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/tools"
)

// Refiner replaces a step's params using the results gathered so far
type Refiner interface {
	RefineParams(ctx context.Context, step plan.Step, previous []plan.ResultEntry) (map[string]any, error)
}

// Observer is notified as each step starts and finishes. Calls happen on the
// executor's goroutine, in step order.
type Observer interface {
	StepStarted(index int, step plan.Step)
	StepFinished(index int, entry plan.LogEntry, result tools.Result)
}

// Executor drives a plan to completion one step at a time
type Executor struct {
	registry *tools.Registry
	refiner  Refiner
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures an Executor
type Option func(*Executor)

// WithRefiner consults r before dispatching each step
func WithRefiner(r Refiner) Option {
	return func(e *Executor) {
		e.refiner = r
	}
}

// WithObserver reports step progress to o
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		e.observer = o
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithClock overrides the time source used for log timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// New creates an executor that dispatches through registry
func New(registry *tools.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry: registry,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every step in order. Step failures never stop the run; each
// one becomes an error log entry and an error result. The only error returned
// is ctx's, in which case nothing accumulated so far is kept.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan) (*plan.Run, error) {
	run := &plan.Run{
		ID:        uuid.NewString(),
		Plan:      p,
		StartedAt: e.now(),
	}

	e.logger.Info("executing plan",
		zap.String("run_id", run.ID),
		zap.String("category", p.Category),
		zap.Int("steps", len(p.Steps)),
	)

	for i := range p.Steps {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("plan execution aborted", zap.String("run_id", run.ID), zap.Error(err))
			return nil, err
		}

		entry, result := e.executeStep(ctx, run, i)

		if err := ctx.Err(); err != nil {
			e.logger.Warn("plan execution aborted", zap.String("run_id", run.ID), zap.Error(err))
			return nil, err
		}

		run.Logs[len(run.Logs)-1] = entry
		run.Results = append(run.Results, plan.ResultEntry{Step: p.Steps[i], Result: result})
		if e.observer != nil {
			e.observer.StepFinished(i, entry, result)
		}
	}

	run.FinishedAt = e.now()
	e.logger.Info("plan finished",
		zap.String("run_id", run.ID),
		zap.Int("failed", len(run.Failed())),
		zap.Duration("duration", run.Duration()),
	)
	return run, nil
}

// executeStep appends a pending entry for step i and returns its terminal
// form together with the step's result
func (e *Executor) executeStep(ctx context.Context, run *plan.Run, i int) (plan.LogEntry, tools.Result) {
	step := &run.Plan.Steps[i]
	entry := plan.LogEntry{
		Timestamp: e.now(),
		Step:      i + 1,
		Action:    step.Label(),
		Tool:      step.Tool,
		Status:    plan.StatusPending,
		Target:    targetHint(step.Params),
	}
	run.Logs = append(run.Logs, entry)
	if e.observer != nil {
		e.observer.StepStarted(i, *step)
	}

	fail := func(result tools.Result) (plan.LogEntry, tools.Result) {
		entry.Timestamp = e.now()
		entry.Status = plan.StatusError
		entry.Error = result.Err()
		e.logger.Warn("step failed",
			zap.Int("step", entry.Step),
			zap.String("tool", step.Tool),
			zap.String("error", entry.Error),
		)
		return entry, result
	}

	if e.refiner != nil {
		params, err := e.refiner.RefineParams(ctx, *step, run.Results)
		if err != nil {
			return fail(tools.Failure("%v", err))
		}
		step.Params = params
		entry.Target = targetHint(params)
	}

	inv, err := e.registry.Resolve(step.Tool)
	if err != nil {
		return fail(tools.Failure("%v", err))
	}

	params, err := inv.ParseParams(step.Params)
	if err != nil {
		return fail(tools.Failure("%v", err))
	}
	entry.Target = params.Target()

	e.logger.Debug("dispatching step",
		zap.Int("step", entry.Step),
		zap.String("tool", string(inv.Family())),
		zap.String("target", entry.Target),
	)

	result := inv.Invoke(ctx, params)
	if result == nil {
		result = tools.Result{}
	}
	if result.Failed() {
		return fail(result)
	}

	entry.Timestamp = e.now()
	entry.Status = plan.StatusSuccess
	return entry, result
}

// targetHint reads the target out of raw params for log display before the
// params are decoded
func targetHint(params map[string]any) string {
	for _, k := range []string{"target", "url", "interface", "domain"} {
		if v, ok := params[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
