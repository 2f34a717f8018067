package tool

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/augur/pkg/cache"
	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultToolTimeout = 3 * time.Second
	defaultCacheTTL    = 5 * time.Minute
)

// Result is the outcome of one tool execution
type Result struct {
	Tool    model.ToolName
	Data    map[string]any
	Kind    model.ErrorKind
	Err     error
	Cached  bool
	Elapsed time.Duration
}

// OK reports whether the execution produced usable data
func (x *Result) OK() bool {
	return x.Kind == model.ErrorKindNone
}

// Execution is the joined outcome of a tool batch
type Execution struct {
	Results map[model.ToolName]*Result

	// NoData is set when at least one tool was requested and none succeeded
	NoData bool
}

// Succeeded returns the tools that produced data, in the given order
func (x *Execution) Succeeded(order []model.ToolName) []model.ToolName {
	var names []model.ToolName
	for _, name := range order {
		if res, ok := x.Results[name]; ok && res.OK() {
			names = append(names, name)
		}
	}
	return names
}

// Runner executes selected tools concurrently with per-tool result caching
// and partial-failure tolerance
type Runner struct {
	registry *Registry
	cache    *cache.Cache[map[string]any]
	cacheTTL time.Duration
	timeout  time.Duration
}

type RunnerOption func(*Runner)

// WithToolTimeout sets the per-tool execution timeout
func WithToolTimeout(d time.Duration) RunnerOption {
	return func(x *Runner) {
		x.timeout = d
	}
}

// WithCacheTTL sets how long a tool result is served from cache
func WithCacheTTL(d time.Duration) RunnerOption {
	return func(x *Runner) {
		x.cacheTTL = d
	}
}

func NewRunner(registry *Registry, opts ...RunnerOption) *Runner {
	x := &Runner{
		registry: registry,
		cacheTTL: defaultCacheTTL,
		timeout:  defaultToolTimeout,
	}

	for _, opt := range opts {
		opt(x)
	}

	x.cache = cache.New[map[string]any](x.cacheTTL)

	return x
}

// Execute runs the requested tools. Cache hits return without contacting the
// collaborator; misses run concurrently, each bounded by the per-tool
// timeout. A single tool's failure never fails the batch.
func (x *Runner) Execute(ctx context.Context, names []model.ToolName) *Execution {
	results := make(map[model.ToolName]*Result, len(names))

	var misses []model.ToolName
	for _, name := range names {
		if data, ok := x.cache.Get(string(name)); ok {
			results[name] = &Result{Tool: name, Data: data, Cached: true}
			continue
		}
		misses = append(misses, name)
	}

	missResults := make([]*Result, len(misses))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, name := range misses {
		eg.Go(func() error {
			missResults[i] = x.runOne(egCtx, name)
			return nil
		})
	}
	// Execution units never return errors; failures live in their Result
	_ = eg.Wait()

	for _, res := range missResults {
		results[res.Tool] = res
		if res.OK() {
			x.cache.Set(string(res.Tool), res.Data)
		}
	}

	exec := &Execution{Results: results}
	if len(names) > 0 {
		exec.NoData = true
		for _, res := range results {
			if res.OK() {
				exec.NoData = false
				break
			}
		}
	}

	return exec
}

// runOne executes a single tool bounded by the per-tool timeout. On timeout
// the fetch goroutine is abandoned and its eventual result discarded.
func (x *Runner) runOne(ctx context.Context, name model.ToolName) *Result {
	started := time.Now()

	t, err := x.registry.Get(name)
	if err != nil {
		return &Result{Tool: name, Kind: model.ErrorKindDataRetrieval, Err: err}
	}

	tctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	type outcome struct {
		data map[string]any
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		data, err := t.Fetch(tctx)
		done <- outcome{data: data, err: err}
	}()

	select {
	case out := <-done:
		res := &Result{Tool: name, Elapsed: time.Since(started)}
		if out.err != nil {
			res.Kind = model.ErrorKindDataRetrieval
			res.Err = goerr.Wrap(out.err, "tool execution failed", goerr.V("tool", name))
			logging.From(ctx).Warn("tool execution failed", "tool", name, "error", out.err)
			return res
		}
		res.Data = out.data
		return res

	case <-tctx.Done():
		// Only the per-tool deadline counts as a timeout; a cancelled parent
		// context is an aborted retrieval
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			logging.From(ctx).Warn("tool execution timed out", "tool", name, "timeout", x.timeout)
			return &Result{
				Tool:    name,
				Kind:    model.ErrorKindTimeout,
				Err:     goerr.Wrap(tctx.Err(), "tool execution timed out", goerr.V("tool", name)),
				Elapsed: time.Since(started),
			}
		}

		logging.From(ctx).Warn("tool execution cancelled", "tool", name, "error", tctx.Err())
		return &Result{
			Tool:    name,
			Kind:    model.ErrorKindDataRetrieval,
			Err:     goerr.Wrap(tctx.Err(), "tool execution cancelled", goerr.V("tool", name)),
			Elapsed: time.Since(started),
		}
	}
}
