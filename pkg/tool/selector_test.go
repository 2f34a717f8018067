package tool_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/performance"
	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func newTestRegistry() *tool.Registry {
	return tool.New(
		&fakeTool{
			name:     "customer_data",
			desc:     "Customer information, churn rates, satisfaction scores",
			keywords: []string{"customer", "churn", "retention"},
			data:     map[string]any{"tool": "customer_data"},
		},
		&fakeTool{
			name:     "support_analysis",
			desc:     "Support tickets, response times, issue categories",
			keywords: []string{"support", "ticket", "issue"},
			data:     map[string]any{"tool": "support_analysis"},
		},
		&fakeTool{
			name:     "financial_metrics",
			desc:     "Revenue, costs, profitability analysis",
			keywords: []string{"revenue", "financial", "cost"},
			data:     map[string]any{"tool": "financial_metrics"},
		},
	)
}

func TestSelectClassifiedOnly(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	selector := tool.NewSelector(registry, tool.NewKeywordClassifier(registry), nil)

	sel := selector.Select(ctx, "why is customer churn increasing", nil)
	gt.False(t, sel.Degraded)
	gt.A(t, sel.Tools).Length(1)
	gt.Equal(t, sel.Tools[0], model.ToolName("customer_data"))
}

func TestSelectMultipleTools(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	selector := tool.NewSelector(registry, tool.NewKeywordClassifier(registry), nil)

	sel := selector.Select(ctx, "how does churn affect revenue", nil)
	gt.A(t, sel.Tools).Length(2)
	gt.Equal(t, sel.Tools[0], model.ToolName("customer_data"))
	gt.Equal(t, sel.Tools[1], model.ToolName("financial_metrics"))
}

func TestSelectNoMatch(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	selector := tool.NewSelector(registry, tool.NewKeywordClassifier(registry), nil)

	// Nothing classified and no usage history: every tool sits below the
	// selection threshold
	sel := selector.Select(ctx, "tell me a joke", nil)
	gt.False(t, sel.Degraded)
	gt.A(t, sel.Tools).Length(0)
}

func TestSelectClassifierFailure(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	llm := &mockCompletion{err: goerr.New("backend unavailable")}
	selector := tool.NewSelector(registry, tool.NewLLMClassifier(llm, registry), nil)

	// Classification failure falls back to the full tool set
	sel := selector.Select(ctx, "why is churn increasing", nil)
	gt.True(t, sel.Degraded)
	gt.A(t, sel.Tools).Length(3)
}

func TestSelectFreshSystemClassifiedOnly(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	tracker := performance.NewTracker()
	selector := tool.NewSelector(registry, tool.NewKeywordClassifier(registry), tracker)

	// A fresh system with zero tracked history selects exactly the classified
	// tool; the bias term never widens the selection
	sel := selector.Select(ctx, "What is our customer churn rate?", nil)
	gt.False(t, sel.Degraded)
	gt.A(t, sel.Tools).Length(1)
	gt.Equal(t, sel.Tools[0], model.ToolName("customer_data"))
}

func TestSelectPromotionOnlyForClassified(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	stats := &fakeStats{
		usage: map[model.ToolName]float64{
			"customer_data":     0.0,
			"financial_metrics": 0.0,
		},
		errors: map[model.ToolName]float64{
			"customer_data": 1.0,
		},
		latency: map[model.ToolName]time.Duration{},
	}
	selector := tool.NewSelector(registry, tool.NewKeywordClassifier(registry), stats)

	// The promotion offsets the error penalty for a rarely used classified
	// tool, but a never-used unclassified tool stays below the threshold
	sel := selector.Select(ctx, "why is churn increasing", nil)
	gt.A(t, sel.Tools).Length(1)
	gt.Equal(t, sel.Tools[0], model.ToolName("customer_data"))
}

func TestSelectErrorPenaltyKeepsClassified(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	stats := &fakeStats{
		usage: map[model.ToolName]float64{"customer_data": 0.5},
		errors: map[model.ToolName]float64{
			"customer_data": 1.0,
		},
		latency: map[model.ToolName]time.Duration{},
	}
	selector := tool.NewSelector(registry, tool.NewKeywordClassifier(registry), stats)

	// A classified tool stays selected despite a perfect error rate; it is
	// down-weighted, not excluded
	sel := selector.Select(ctx, "why is churn increasing", nil)
	gt.A(t, sel.Tools).Length(1)
	gt.Equal(t, sel.Tools[0], model.ToolName("customer_data"))
}

func TestSelectLatencyTieBreak(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	stats := &fakeStats{
		usage:  map[model.ToolName]float64{},
		errors: map[model.ToolName]float64{},
		latency: map[model.ToolName]time.Duration{
			"customer_data":     800 * time.Millisecond,
			"financial_metrics": 200 * time.Millisecond,
		},
	}
	selector := tool.NewSelector(registry, tool.NewKeywordClassifier(registry), stats)

	// Both tools classify with equal scores; the faster one is proposed first
	sel := selector.Select(ctx, "how does churn affect revenue", nil)
	gt.A(t, sel.Tools).Length(2)
	gt.Equal(t, sel.Tools[0], model.ToolName("financial_metrics"))
	gt.Equal(t, sel.Tools[1], model.ToolName("customer_data"))
}
