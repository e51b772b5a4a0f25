package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/who0xac/hackfusion/pkg/assistant"
	"github.com/who0xac/hackfusion/pkg/config"
	"github.com/who0xac/hackfusion/pkg/executor"
	"github.com/who0xac/hackfusion/pkg/llm"
	"github.com/who0xac/hackfusion/pkg/notify"
	"github.com/who0xac/hackfusion/pkg/output/formatter"
	"github.com/who0xac/hackfusion/pkg/output/terminal"
	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/report"
	"github.com/who0xac/hackfusion/pkg/store"
	"github.com/who0xac/hackfusion/pkg/tools"
)

// ErrAIUnavailable is returned by RunAI when no reasoning service is configured
var ErrAIUnavailable = errors.New("AI assistant not available")

// RunOptions controls one AI-assisted run
type RunOptions struct {
	// Refine asks the assistant for each step's params before dispatch
	Refine bool
	// Save writes the report files and archives the run
	Save bool
	// Notify sends a desktop notification when the run ends
	Notify bool
	// Quiet suppresses the step-by-step terminal output
	Quiet bool
}

// Outcome is what a finished AI-assisted run produced
type Outcome struct {
	Run      *plan.Run
	Markdown string
	Files    []string
}

// Session wires configuration, tools and the assistant together for one
// process lifetime
type Session struct {
	Config     *config.Config
	Registry   *tools.Registry
	Categories *tools.Scanner
	Runner     tools.Runner

	logger    *zap.Logger
	assistant *assistant.Assistant
	aiErr     error
	store     *store.ReportStore
	notifier  *notify.Notifier
	version   string
	now       func() time.Time
}

// Option configures a Session
type Option func(*sessionOptions)

type sessionOptions struct {
	model         llms.Model
	runner        tools.Runner
	store         *store.ReportStore
	skipStore     bool
	now           func() time.Time
	notifyEnabled bool
}

// WithModel uses m instead of building a client from configuration
func WithModel(m llms.Model) Option {
	return func(o *sessionOptions) {
		o.model = m
	}
}

// WithRunner runs tools through r instead of os/exec
func WithRunner(r tools.Runner) Option {
	return func(o *sessionOptions) {
		o.runner = r
	}
}

// WithStore uses an already opened report archive
func WithStore(s *store.ReportStore) Option {
	return func(o *sessionOptions) {
		o.store = s
	}
}

// WithoutStore disables the report archive
func WithoutStore() Option {
	return func(o *sessionOptions) {
		o.skipStore = true
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(o *sessionOptions) {
		o.now = now
	}
}

// New builds a session. A missing or broken reasoning-service configuration
// only disables the AI path; a broken report archive is an error.
func New(cfg *config.Config, logger *zap.Logger, version string, opts ...Option) (*Session, error) {
	o := &sessionOptions{now: time.Now, notifyEnabled: cfg.Notify.Enabled}
	for _, opt := range opts {
		opt(o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	runner := o.runner
	if runner == nil {
		runner = tools.NewExecRunner()
	}
	registry := tools.DefaultRegistry(runner)

	s := &Session{
		Config:     cfg,
		Registry:   registry,
		Categories: tools.NewScanner(registry),
		Runner:     runner,
		logger:     logger,
		store:      o.store,
		notifier:   notify.New(o.notifyEnabled, logger),
		version:    version,
		now:        o.now,
	}

	model := o.model
	if model == nil {
		m, err := llm.New(cfg.AI)
		if err != nil {
			s.aiErr = err
			logger.Warn("AI assistant disabled", zap.Error(err))
		}
		model = m
	}
	if model != nil {
		s.assistant = assistant.New(model,
			assistant.WithLogger(logger.Named("assistant")),
			assistant.WithTemperature(cfg.AI.Temperature),
		)
	}

	if s.store == nil && !o.skipStore && cfg.History.Path != "" {
		st, err := store.NewReportStore(cfg.History.Path, logger.Named("store"))
		if err != nil {
			return nil, fmt.Errorf("failed to open report history: %w", err)
		}
		s.store = st
	}

	return s, nil
}

// Close releases the report archive
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// AIAvailable reports whether RunAI can be used and, if not, why
func (s *Session) AIAvailable() (bool, error) {
	if s.assistant == nil {
		if s.aiErr == nil {
			return false, ErrAIUnavailable
		}
		return false, s.aiErr
	}
	return true, nil
}

// Store returns the report archive, or nil when it is disabled
func (s *Session) Store() *store.ReportStore {
	return s.store
}

// RunAI plans, executes and reports one natural-language request. A plan
// that fails to generate returns an error before any tool runs; individual
// step failures are part of the returned run.
func (s *Session) RunAI(ctx context.Context, request string, opts RunOptions) (*Outcome, error) {
	if ok, err := s.AIAvailable(); !ok {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	if !opts.Quiet {
		terminal.PrintProgress("Analyzing request...")
	}
	p, err := s.assistant.GeneratePlan(ctx, request)
	if err != nil {
		return nil, err
	}

	execOpts := []executor.Option{
		executor.WithLogger(s.logger.Named("executor")),
		executor.WithClock(s.now),
	}
	if opts.Refine {
		execOpts = append(execOpts, executor.WithRefiner(s.assistant))
	}

	var progress *terminal.StepProgress
	if !opts.Quiet {
		terminal.PrintPlan(p)
		progress = terminal.NewStepProgress(len(p.Steps))
		execOpts = append(execOpts, executor.WithObserver(progress))
	}

	run, err := executor.New(s.Registry, execOpts...).Execute(ctx, p)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return nil, err
	}

	generatedAt := s.now()
	out := &Outcome{
		Run:      run,
		Markdown: report.Generate(run, generatedAt),
	}

	if opts.Save {
		files, err := formatter.WriteAll(s.Config.Output.Dir, run, s.Config.Output.Formats, s.version, generatedAt)
		out.Files = files
		if err != nil {
			return out, fmt.Errorf("failed to write report: %w", err)
		}
		if s.store != nil {
			if err := s.store.Save(ctx, request, run, out.Markdown, generatedAt); err != nil {
				return out, err
			}
		}
	}

	if opts.Notify {
		s.notifier.RunFinished(run)
	}

	return out, nil
}

// CategoryScan runs one of the fixed menu scans
func (s *Session) CategoryScan(ctx context.Context, category Category, target string) []tools.NamedResult {
	s.logger.Info("category scan", zap.String("category", string(category)), zap.String("target", target))

	switch category {
	case InformationGathering:
		return s.Categories.InformationGathering(ctx, target)
	case VulnerabilityAnalysis:
		return s.Categories.VulnerabilityAnalysis(ctx, target)
	case WebApplication:
		return s.Categories.WebApplication(ctx, target, nil)
	case XSS:
		return s.Categories.XSS(ctx, target)
	case SSL:
		return s.Categories.SSL(ctx, target)
	case CMS:
		return s.Categories.CMS(ctx, target)
	case Wireless:
		return s.Categories.Wireless(ctx, target)
	}
	return nil
}

// Category names a fixed menu scan
type Category string

const (
	InformationGathering  Category = "Information Gathering"
	VulnerabilityAnalysis Category = "Vulnerability Analysis"
	WebApplication        Category = "Web Application Analysis"
	XSS                   Category = "XSS Testing"
	SSL                   Category = "SSL/TLS Analysis"
	CMS                   Category = "CMS Scanning"
	Wireless              Category = "Wireless Network Analysis"
)
