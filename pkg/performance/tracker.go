package performance

import (
	"math"
	"sync"
	"time"

	"github.com/m-mizutani/augur/pkg/model"
)

// Tracker aggregates per-query performance records into running summaries.
// Records are append-only; every statistic is maintained incrementally so a
// summary never rescans history.
type Tracker struct {
	mu sync.RWMutex

	total     int
	successes int

	// Welford running mean/variance of latency in seconds
	latMean float64
	latM2   float64

	confMean float64

	tools map[model.ToolName]*toolStat
	kinds map[model.QueryKind]int
}

type toolStat struct {
	uses    int
	errors  int
	latMean float64
}

func NewTracker() *Tracker {
	return &Tracker{
		tools: make(map[model.ToolName]*toolStat),
		kinds: make(map[model.QueryKind]int),
	}
}

// Track folds one record into the aggregates
func (t *Tracker) Track(rec *model.PerformanceRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	if rec.Success {
		t.successes++
	}

	lat := rec.ExecutionTime.Seconds()
	delta := lat - t.latMean
	t.latMean += delta / float64(t.total)
	t.latM2 += delta * (lat - t.latMean)

	t.confMean += (rec.Confidence - t.confMean) / float64(t.total)

	t.kinds[rec.Kind]++

	for _, name := range rec.ToolsUsed {
		st := t.tools[name]
		if st == nil {
			st = &toolStat{}
			t.tools[name] = st
		}

		st.uses++
		if kind, ok := rec.ToolErrors[name]; ok && kind != model.ErrorKindNone {
			st.errors++
		}
		if elapsed, ok := rec.ToolElapsed[name]; ok {
			st.latMean += (elapsed.Seconds() - st.latMean) / float64(st.uses)
		}
	}
}

// ToolUsageRate returns the share of tracked queries that used the tool
func (t *Tracker) ToolUsageRate(name model.ToolName) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.total == 0 {
		return 0
	}
	if st, ok := t.tools[name]; ok {
		return float64(st.uses) / float64(t.total)
	}
	return 0
}

// ToolErrorRate returns the share of the tool's executions that failed
func (t *Tracker) ToolErrorRate(name model.ToolName) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if st, ok := t.tools[name]; ok && st.uses > 0 {
		return float64(st.errors) / float64(st.uses)
	}
	return 0
}

// ToolAvgLatency returns the tool's mean execution time
func (t *Tracker) ToolAvgLatency(name model.ToolName) time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if st, ok := t.tools[name]; ok {
		return time.Duration(st.latMean * float64(time.Second))
	}
	return 0
}

// Summary returns a read-only snapshot of the aggregates
func (t *Tracker) Summary() *Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := &Summary{
		TotalQueries:  t.total,
		AvgConfidence: t.confMean,
		AvgLatency:    time.Duration(t.latMean * float64(time.Second)),
		Tools:         make(map[model.ToolName]ToolSummary, len(t.tools)),
		QueryKinds:    make(map[model.QueryKind]int, len(t.kinds)),
	}

	if t.total > 0 {
		s.SuccessRate = float64(t.successes) / float64(t.total)
	}
	if t.total > 1 {
		s.LatencyStdDev = time.Duration(math.Sqrt(t.latM2/float64(t.total-1)) * float64(time.Second))
	}

	for name, st := range t.tools {
		ts := ToolSummary{
			Uses:       st.uses,
			AvgLatency: time.Duration(st.latMean * float64(time.Second)),
			UsageRate:  float64(st.uses) / float64(t.total),
		}
		if st.uses > 0 {
			ts.ErrorRate = float64(st.errors) / float64(st.uses)
		}
		s.Tools[name] = ts
	}

	for kind, count := range t.kinds {
		s.QueryKinds[kind] = count
	}

	return s
}
