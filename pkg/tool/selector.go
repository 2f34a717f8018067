package tool

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/utils/logging"
)

// Stats provides the selection bias signals, implemented by the performance
// tracker. A nil Stats disables biasing.
type Stats interface {
	// ToolUsageRate returns the share of tracked queries that used the tool
	ToolUsageRate(name model.ToolName) float64

	// ToolErrorRate returns the share of the tool's executions that failed
	ToolErrorRate(name model.ToolName) float64

	// ToolAvgLatency returns the tool's mean execution time
	ToolAvgLatency(name model.ToolName) time.Duration
}

// Selection weights. A classified tool starts at baseClassified, every other
// registered tool at baseUnclassified. The error penalty scales the base down
// but cannot push a classified tool below the threshold on its own, so a
// noisy tool is down-weighted, never excluded outright. The underuse
// promotion counteracts the penalty for classified tools the tracker has
// rarely seen; it never applies to unclassified tools, so the bias re-ranks
// the classified set and cannot widen it.
const (
	baseClassified    = 1.0
	baseUnclassified  = 0.3
	errorPenalty      = 0.5
	underusePromotion = 0.25
	selectThreshold   = 0.55
)

// Selector decides which tools a query needs, combining a classification
// signal with the performance bias
type Selector struct {
	registry   *Registry
	classifier Classifier
	stats      Stats
}

func NewSelector(registry *Registry, classifier Classifier, stats Stats) *Selector {
	return &Selector{
		registry:   registry,
		classifier: classifier,
		stats:      stats,
	}
}

// Selection is the outcome of tool selection for one query
type Selection struct {
	// Tools is ordered by descending score; equal scores are ordered by the
	// tool's recent average latency, fastest first
	Tools []model.ToolName

	// Degraded is set when the classification signal was unavailable and the
	// selector fell back to the full tool set
	Degraded bool
}

// Select proposes the tool set for the query. Classification failure degrades
// to all registered tools rather than failing the request.
func (s *Selector) Select(ctx context.Context, query string, recent []*model.Interaction) *Selection {
	classified, err := s.classifier.Classify(ctx, query, recent)
	if err != nil {
		logging.From(ctx).Warn("tool classification unavailable, falling back to all tools",
			"error", err, "query_kind", model.ClassifyQuery(query))
		return &Selection{Tools: s.registry.Names(), Degraded: true}
	}

	inClass := make(map[model.ToolName]bool, len(classified))
	for _, name := range classified {
		inClass[name] = true
	}

	type scored struct {
		name    model.ToolName
		score   float64
		latency time.Duration
	}

	candidates := make([]scored, 0, len(s.registry.Names()))
	for _, name := range s.registry.Names() {
		score := baseUnclassified
		if inClass[name] {
			score = baseClassified
		}

		var latency time.Duration
		if s.stats != nil {
			score *= 1 - errorPenalty*s.stats.ToolErrorRate(name)
			if inClass[name] {
				score += underusePromotion * (1 - s.stats.ToolUsageRate(name))
			}
			latency = s.stats.ToolAvgLatency(name)
		}

		candidates = append(candidates, scored{name: name, score: score, latency: latency})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].latency < candidates[j].latency
	})

	var names []model.ToolName
	for _, c := range candidates {
		if c.score >= selectThreshold {
			names = append(names, c.name)
		}
	}

	return &Selection{Tools: names}
}
