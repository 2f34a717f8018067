package tool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// fakeTool is a configurable in-process Tool implementation
type fakeTool struct {
	name     model.ToolName
	desc     string
	keywords []string
	data     map[string]any
	err      error
	delay    time.Duration
	calls    atomic.Int64
}

func (x *fakeTool) Name() model.ToolName { return x.name }
func (x *fakeTool) Description() string  { return x.desc }
func (x *fakeTool) Keywords() []string   { return x.keywords }
func (x *fakeTool) Flags() []cli.Flag    { return nil }

func (x *fakeTool) Fetch(ctx context.Context) (map[string]any, error) {
	x.calls.Add(1)

	if x.delay > 0 {
		select {
		case <-time.After(x.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if x.err != nil {
		return nil, x.err
	}
	return x.data, nil
}

// hangTool sleeps without watching the context, forcing the runner to give
// up on the fetch goroutine
type hangTool struct {
	name  model.ToolName
	sleep time.Duration
}

func (x *hangTool) Name() model.ToolName { return x.name }
func (x *hangTool) Description() string  { return "" }
func (x *hangTool) Keywords() []string   { return nil }
func (x *hangTool) Flags() []cli.Flag    { return nil }

func (x *hangTool) Fetch(ctx context.Context) (map[string]any, error) {
	time.Sleep(x.sleep)
	return map[string]any{}, nil
}

// mockCompletion returns canned responses or a fixed error
type mockCompletion struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (m *mockCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// fakeStats provides fixed bias signals per tool
type fakeStats struct {
	usage   map[model.ToolName]float64
	errors  map[model.ToolName]float64
	latency map[model.ToolName]time.Duration
}

func (f *fakeStats) ToolUsageRate(name model.ToolName) float64 {
	return f.usage[name]
}

func (f *fakeStats) ToolErrorRate(name model.ToolName) float64 {
	return f.errors[name]
}

func (f *fakeStats) ToolAvgLatency(name model.ToolName) time.Duration {
	return f.latency[name]
}

var errFetchFailed = goerr.New("fetch failed")
