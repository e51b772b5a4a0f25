package tools

import (
	"context"
	"errors"
	"fmt"
)

// Invoker wraps one external executable behind a shared contract
type Invoker interface {
	Family() Family
	// ParseParams decodes and validates a loose parameter mapping
	ParseParams(raw map[string]any) (Params, error)
	// Invoke runs the tool synchronously. Failures are reported through the
	// result's error key, never as a panic or returned error.
	Invoke(ctx context.Context, p Params) Result
}

var errWrongParams = errors.New("params do not belong to this tool")

// binaryInvoker is the common Invoker for a single binary; families differ
// only in how they build arguments and post-process output
type binaryInvoker struct {
	family    Family
	label     string
	runner    Runner
	newParams func() Params
	buildArgs func(p Params) ([]string, error)
	parse     func(p Params, out Output) Result
	// exitOK lists non-zero exit codes that still carry a usable report
	exitOK []int
}

func (b *binaryInvoker) Family() Family {
	return b.family
}

func (b *binaryInvoker) ParseParams(raw map[string]any) (Params, error) {
	p := b.newParams()
	if raw == nil {
		raw = map[string]any{}
	}
	if err := decodeParams(b.family, raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (b *binaryInvoker) Invoke(ctx context.Context, p Params) Result {
	args, err := b.buildArgs(p)
	if err != nil {
		return Failure("Error running %s: %v", b.label, err)
	}

	out, err := b.runner.Run(ctx, b.family.Binary(), args...)
	if err != nil && !b.acceptable(err) {
		return Failure("%s failed: %v", b.label, err)
	}
	out.Args = args

	if b.parse != nil {
		return b.parse(p, out)
	}
	return Success(out.Stdout, out.Command)
}

// acceptable reports whether err is an exit status listed in exitOK
func (b *binaryInvoker) acceptable(err error) bool {
	var invErr *ToolInvocationError
	if !errors.As(err, &invErr) || invErr.ExitCode == 0 {
		return false
	}
	for _, code := range b.exitOK {
		if invErr.ExitCode == code {
			return true
		}
	}
	return false
}

// Registry maps tool families to their invokers
type Registry struct {
	invokers map[Family]Invoker
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{invokers: make(map[Family]Invoker)}
}

// Register adds or replaces the invoker for its family
func (r *Registry) Register(inv Invoker) {
	r.invokers[inv.Family()] = inv
}

// Get returns the invoker for a family
func (r *Registry) Get(f Family) (Invoker, bool) {
	inv, ok := r.invokers[f]
	return inv, ok
}

// Resolve looks up an invoker by tool name
func (r *Registry) Resolve(name string) (Invoker, error) {
	f, err := ParseFamily(name)
	if err != nil {
		return nil, err
	}
	inv, ok := r.invokers[f]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return inv, nil
}

// Run decodes raw params and invokes the family in one call
func (r *Registry) Run(ctx context.Context, f Family, raw map[string]any) Result {
	inv, ok := r.Get(f)
	if !ok {
		return Failure("%v", &UnknownToolError{Name: string(f)})
	}
	p, err := inv.ParseParams(raw)
	if err != nil {
		return Failure("%v", err)
	}
	return inv.Invoke(ctx, p)
}

// DefaultRegistry registers every known family against the given runner
func DefaultRegistry(runner Runner) *Registry {
	r := NewRegistry()
	for _, inv := range informationInvokers(runner) {
		r.Register(inv)
	}
	for _, inv := range webInvokers(runner) {
		r.Register(inv)
	}
	for _, inv := range wirelessInvokers(runner) {
		r.Register(inv)
	}
	return r
}

func wrongParams(f Family, p Params) error {
	return fmt.Errorf("%w: %s got %T", errWrongParams, f, p)
}
