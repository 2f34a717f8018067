package tool_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestLLMClassifierParsesNames(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	llm := &mockCompletion{response: "customer_data, financial_metrics"}
	classifier := tool.NewLLMClassifier(llm, registry)

	names, err := classifier.Classify(ctx, "how does churn affect revenue", nil)
	gt.NoError(t, err)
	gt.A(t, names).Length(2)
	gt.Equal(t, names[0], model.ToolName("customer_data"))
	gt.Equal(t, names[1], model.ToolName("financial_metrics"))
}

func TestLLMClassifierNone(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	llm := &mockCompletion{response: "none"}
	classifier := tool.NewLLMClassifier(llm, registry)

	names, err := classifier.Classify(ctx, "hello there", nil)
	gt.NoError(t, err)
	gt.A(t, names).Length(0)
}

func TestLLMClassifierIgnoresUnknownNames(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	llm := &mockCompletion{response: "crystal_ball, support_analysis"}
	classifier := tool.NewLLMClassifier(llm, registry)

	names, err := classifier.Classify(ctx, "open ticket trends", nil)
	gt.NoError(t, err)
	gt.A(t, names).Length(1)
	gt.Equal(t, names[0], model.ToolName("support_analysis"))
}

func TestLLMClassifierError(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	llm := &mockCompletion{err: goerr.New("backend unavailable")}
	classifier := tool.NewLLMClassifier(llm, registry)

	_, err := classifier.Classify(ctx, "anything", nil)
	gt.Error(t, err)
}

func TestLLMClassifierPromptContext(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	llm := &mockCompletion{response: "none"}
	classifier := tool.NewLLMClassifier(llm, registry)

	recent := []*model.Interaction{
		{Query: "previous question about churn", CreatedAt: time.Now()},
	}
	_, err := classifier.Classify(ctx, "and what about now", recent)
	gt.NoError(t, err)

	gt.A(t, llm.prompts).Length(1)
	gt.S(t, llm.prompts[0]).
		Contains("customer_data: Customer information").
		Contains("and what about now").
		Contains("previous question about churn")
}

func TestKeywordClassifier(t *testing.T) {
	ctx := context.Background()

	registry := newTestRegistry()
	classifier := tool.NewKeywordClassifier(registry)

	names, err := classifier.Classify(ctx, "Why is customer churn increasing this quarter?", nil)
	gt.NoError(t, err)
	gt.A(t, names).Length(1)
	gt.Equal(t, names[0], model.ToolName("customer_data"))

	names, err = classifier.Classify(ctx, "completely unrelated", nil)
	gt.NoError(t, err)
	gt.A(t, names).Length(0)
}
