package tool

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/augur/pkg/adapter"
	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed prompt/select.md
var selectPromptRaw string

var selectPromptTmpl = template.Must(template.New("select").Parse(selectPromptRaw))

// Classifier maps a query to the set of tools it needs. Implementations must
// return a subset of the registered tool names; an empty set is a valid
// answer (the query can be served from memory alone).
type Classifier interface {
	Classify(ctx context.Context, query string, recent []*model.Interaction) ([]model.ToolName, error)
}

// llmClassifier delegates tool selection to the completion backend
type llmClassifier struct {
	llm      adapter.Completion
	registry *Registry
}

// NewLLMClassifier creates a classifier that asks the completion backend to
// name the relevant tools
func NewLLMClassifier(llm adapter.Completion, registry *Registry) Classifier {
	return &llmClassifier{llm: llm, registry: registry}
}

func (x *llmClassifier) Classify(ctx context.Context, query string, recent []*model.Interaction) ([]model.ToolName, error) {
	var buf bytes.Buffer
	if err := selectPromptTmpl.Execute(&buf, map[string]any{
		"Catalog": x.registry.Catalog(),
		"Query":   query,
		"Recent":  recent,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to render selection prompt")
	}

	resp, err := x.llm.Complete(ctx, buf.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify tools for query")
	}

	text := strings.ToLower(strings.TrimSpace(resp))
	if strings.Contains(text, "none") {
		return nil, nil
	}

	var selected []model.ToolName
	for _, name := range x.registry.Names() {
		if strings.Contains(text, strings.ToLower(string(name))) {
			selected = append(selected, name)
		}
	}

	return selected, nil
}

// keywordClassifier scores tools by keyword occurrence. Deterministic and
// offline, used when no classification backend is configured.
type keywordClassifier struct {
	registry *Registry
}

// NewKeywordClassifier creates a deterministic keyword-based classifier
func NewKeywordClassifier(registry *Registry) Classifier {
	return &keywordClassifier{registry: registry}
}

func (x *keywordClassifier) Classify(ctx context.Context, query string, recent []*model.Interaction) ([]model.ToolName, error) {
	q := strings.ToLower(query)

	var selected []model.ToolName
	for _, t := range x.registry.Tools() {
		for _, kw := range t.Keywords() {
			if strings.Contains(q, kw) {
				selected = append(selected, t.Name())
				break
			}
		}
	}

	return selected, nil
}
