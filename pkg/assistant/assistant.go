package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/who0xac/hackfusion/pkg/plan"
)

// Assistant turns natural-language requests into plans and refines step
// parameters against earlier results. It makes exactly one service call per
// operation and never retries.
type Assistant struct {
	model       llms.Model
	logger      *zap.Logger
	temperature float64
	planPrompt  string
}

// Option configures an Assistant
type Option func(*Assistant)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(a *Assistant) {
		a.logger = l
	}
}

// WithTemperature sets the sampling temperature for both calls
func WithTemperature(t float64) Option {
	return func(a *Assistant) {
		a.temperature = t
	}
}

// New creates an assistant over an already configured reasoning service
func New(model llms.Model, opts ...Option) *Assistant {
	a := &Assistant{
		model:       model,
		logger:      zap.NewNop(),
		temperature: 0.2,
		planPrompt:  buildPlanPrompt(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GeneratePlan asks the reasoning service for an action plan
func (a *Assistant) GeneratePlan(ctx context.Context, request string) (*plan.Plan, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, &PlanGenerationError{Err: errors.New("request is empty")}
	}

	a.logger.Info("generating plan", zap.Int("request_length", len(request)))

	reply, err := a.complete(ctx, a.planPrompt, request)
	if err != nil {
		return nil, &PlanGenerationError{Err: err}
	}

	var p plan.Plan
	if err := decodeStrict(reply, &p); err != nil {
		a.logger.Warn("plan reply rejected", zap.Error(err))
		return nil, &PlanGenerationError{Err: err}
	}
	if err := p.Validate(); err != nil {
		return nil, &PlanGenerationError{Err: &MalformedReplyError{Reply: reply, Err: err}}
	}

	a.logger.Info("plan generated",
		zap.String("category", p.Category),
		zap.Int("steps", len(p.Steps)),
	)
	return &p, nil
}

// refineContext is the user content sent for parameter refinement
type refineContext struct {
	CurrentStep     plan.Step          `json:"current_step"`
	PreviousResults []plan.ResultEntry `json:"previous_results"`
}

// RefineParams asks for the optimal parameter mapping for step given the
// results so far. The returned mapping replaces the step's params entirely.
func (a *Assistant) RefineParams(ctx context.Context, step plan.Step, previous []plan.ResultEntry) (map[string]any, error) {
	if previous == nil {
		previous = []plan.ResultEntry{}
	}
	payload, err := json.Marshal(refineContext{CurrentStep: step, PreviousResults: previous})
	if err != nil {
		return nil, &ParameterRefinementError{Tool: step.Tool, Err: err}
	}

	a.logger.Debug("refining step params",
		zap.String("tool", step.Tool),
		zap.Int("previous_results", len(previous)),
	)

	reply, err := a.complete(ctx, refinePrompt, string(payload))
	if err != nil {
		return nil, &ParameterRefinementError{Tool: step.Tool, Err: err}
	}

	var params map[string]any
	if err := decodeStrict(reply, &params); err != nil {
		return nil, &ParameterRefinementError{Tool: step.Tool, Err: err}
	}
	if params == nil {
		return nil, &ParameterRefinementError{Tool: step.Tool, Err: &MalformedReplyError{Reply: reply, Err: errors.New("reply is null")}}
	}
	return params, nil
}

// complete sends one system+user exchange in JSON mode
func (a *Assistant) complete(ctx context.Context, system, user string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}

	resp, err := a.model.GenerateContent(ctx, messages,
		llms.WithJSONMode(),
		llms.WithTemperature(a.temperature),
	)
	if err != nil {
		a.logger.Error("reasoning service call failed", zap.Error(err))
		return "", &ServiceCallError{Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &MalformedReplyError{Err: errors.New("reply has no choices")}
	}
	return resp.Choices[0].Content, nil
}

// decodeStrict accepts a reply only if it is exactly one JSON object
func decodeStrict(reply string, v any) error {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "{") {
		return &MalformedReplyError{Reply: reply, Err: errors.New("reply is not a JSON object")}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	if err := dec.Decode(v); err != nil {
		return &MalformedReplyError{Reply: reply, Err: fmt.Errorf("failed to parse JSON: %w", err)}
	}
	if dec.More() {
		return &MalformedReplyError{Reply: reply, Err: errors.New("trailing data after JSON object")}
	}
	return nil
}
