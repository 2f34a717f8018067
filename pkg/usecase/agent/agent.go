package agent

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/augur/pkg/adapter"
	"github.com/m-mizutani/augur/pkg/memory"
	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/performance"
	"github.com/m-mizutani/augur/pkg/repository"
	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/augur/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultTimeout   = 30 * time.Second
	writeBackTimeout = 10 * time.Second

	// recentContextSize is how many of the latest interactions are handed to
	// the selector as conversational context
	recentContextSize = 3
)

// Agent is the orchestration façade. It owns the memory store, the tool
// layer and the performance tracker for its process lifetime; nothing else
// mutates them.
type Agent struct {
	llm      adapter.Completion
	selector *tool.Selector
	runner   *tool.Runner
	memory   *memory.Store
	tracker  *performance.Tracker
	repo     repository.Repository
	timeout  time.Duration

	wg sync.WaitGroup
}

// Input contains the collaborators for a new Agent. Repo is optional; without
// it interactions are kept only in the in-process memory store.
type Input struct {
	LLM      adapter.Completion
	Selector *tool.Selector
	Runner   *tool.Runner
	Memory   *memory.Store
	Tracker  *performance.Tracker
	Repo     repository.Repository
	Timeout  time.Duration
}

func New(input Input) *Agent {
	timeout := input.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Agent{
		llm:      input.LLM,
		selector: input.Selector,
		runner:   input.Runner,
		memory:   input.Memory,
		tracker:  input.Tracker,
		repo:     input.Repo,
		timeout:  timeout,
	}
}

// Invoke answers a business query: select tools, fetch their data
// concurrently, enrich with similar past interactions, call the completion
// backend, and record the outcome. Partial tool failure and memory failure
// degrade the answer; only a completion failure with no cached fallback is
// returned as an error.
func (a *Agent) Invoke(ctx context.Context, query string) (*model.Answer, error) {
	started := time.Now()
	logger := logging.From(ctx)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ph := phaseReceived
	logger.Info("agent invocation started", "query", query)

	recent := a.memory.Latest(recentContextSize)
	sel := a.selector.Select(ctx, query, recent)
	ph = phaseToolsSelected
	logger.Debug("tools selected", "tools", sel.Tools, "degraded", sel.Degraded)

	exec := a.runner.Execute(ctx, sel.Tools)
	ph = phaseDataRetrieved

	memories := a.memory.Search(ctx, query)
	ph = phaseContextEnhanced

	// The outer timeout expired before the completion call: go straight to
	// the fallback strategy.
	if ctx.Err() != nil {
		logger.Warn("orchestration timed out before completion", "phase", ph)
		return a.fallback(ctx, query, started, sel, exec, memories, ctx.Err())
	}

	prompt, err := buildPrompt(query, exec, memories)
	if err != nil {
		return a.fallback(ctx, query, started, sel, exec, memories, err)
	}

	text, err := a.llm.Complete(ctx, prompt)
	ph = phaseCompletionInvoked
	if err != nil {
		logger.Warn("completion failed", "phase", ph, "error", err)
		return a.fallback(ctx, query, started, sel, exec, memories, err)
	}

	ans := parseCompletion(text)
	ans.DataSources = exec.Succeeded(sel.Tools)
	ans.Performance = model.AnswerPerformance{
		ExecutionTime:     time.Since(started),
		ToolsUsed:         sel.Tools,
		MemoryContextSize: len(memories),
	}
	if sel.Degraded {
		ans.MarkDegraded(model.DegradedSelection)
	}
	if exec.NoData {
		ans.MarkDegraded(model.DegradedNoData)
	}

	ph = phaseResponded
	logger.Info("agent invocation completed",
		"phase", ph,
		"confidence", ans.Confidence,
		"data_sources", ans.DataSources,
		"degraded", ans.Degraded,
		"execution_time", ans.Performance.ExecutionTime)

	a.writeBack(ctx, query, ans, sel, exec, true)

	return ans, nil
}

// fallback returns the most similar cached interaction when one clears the
// similarity threshold, else a structured completion error
func (a *Agent) fallback(ctx context.Context, query string, started time.Time, sel *tool.Selection, exec *tool.Execution, memories []*model.Interaction, cause error) (*model.Answer, error) {
	if len(memories) > 0 {
		past := memories[0]
		ans := &model.Answer{
			Analysis:    past.Response,
			DataSources: past.ToolsUsed,
			Performance: model.AnswerPerformance{
				ExecutionTime:     time.Since(started),
				ToolsUsed:         sel.Tools,
				MemoryContextSize: len(memories),
			},
		}
		ans.MarkDegraded(model.DegradedCachedFallback)

		logging.From(ctx).Info("returning cached fallback", "interaction", past.ID)
		a.writeBack(ctx, query, ans, sel, exec, false)

		return ans, nil
	}

	a.writeBack(ctx, query, nil, sel, exec, false)

	return nil, goerr.Wrap(model.ErrCompletion,
		"completion unavailable and no cached interaction is similar enough",
		goerr.V("query", query), goerr.V("cause", cause))
}

// writeBack dispatches the memory, performance and archive writes without
// blocking the response path. Failures are logged and never surfaced to the
// caller. A nil answer records performance only.
func (a *Agent) writeBack(ctx context.Context, query string, ans *model.Answer, sel *tool.Selection, exec *tool.Execution, success bool) {
	rec := &model.PerformanceRecord{
		Kind:        model.ClassifyQuery(query),
		ToolsUsed:   sel.Tools,
		ToolElapsed: make(map[model.ToolName]time.Duration, len(exec.Results)),
		ToolErrors:  make(map[model.ToolName]model.ErrorKind, len(exec.Results)),
		Success:     success,
		TrackedAt:   time.Now(),
	}
	for name, res := range exec.Results {
		rec.ToolElapsed[name] = res.Elapsed
		if !res.OK() {
			rec.ToolErrors[name] = res.Kind
		}
	}

	var x *model.Interaction
	if ans != nil {
		rec.ExecutionTime = ans.Performance.ExecutionTime
		rec.Confidence = ans.Confidence

		// Cached fallbacks replay an already stored interaction
		if success {
			x = &model.Interaction{
				ID:        model.NewInteractionID(),
				Query:     query,
				Response:  ans.Analysis,
				ToolsUsed: ans.DataSources,
				CreatedAt: time.Now(),
			}
		}
	}

	wctx := context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		wctx, cancel := context.WithTimeout(wctx, writeBackTimeout)
		defer cancel()

		a.tracker.Track(rec)

		if x == nil {
			return
		}

		a.memory.Add(wctx, x)

		if a.repo != nil {
			if err := a.repo.PutInteraction(wctx, x); err != nil {
				logging.From(wctx).Warn("failed to archive interaction", "id", x.ID, "error", err)
			}
		}
	}()
}

// Summary exposes the tracker's aggregated statistics
func (a *Agent) Summary() *performance.Summary {
	return a.tracker.Summary()
}

// MemorySize returns the number of interactions currently held in memory
func (a *Agent) MemorySize() int {
	return a.memory.Size()
}

// Wait blocks until all dispatched write-backs have finished. Call before
// process exit so the last interaction reaches the archive.
func (a *Agent) Wait() {
	a.wg.Wait()
}
