package agent

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed prompt/analyze.md
var analyzePromptRaw string

var analyzePromptTmpl = template.Must(template.New("analyze").Parse(analyzePromptRaw))

// buildPrompt assembles the completion prompt from the query, the retrieved
// tool data and the memory context
func buildPrompt(query string, exec *tool.Execution, memories []*model.Interaction) (string, error) {
	toolData := make(map[string]any)
	for name, res := range exec.Results {
		if res.OK() {
			toolData[string(name)] = res.Data
		}
	}

	dataJSON, err := json.MarshalIndent(toolData, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal tool results")
	}

	var buf bytes.Buffer
	if err := analyzePromptTmpl.Execute(&buf, map[string]any{
		"Query":       query,
		"ToolResults": string(dataJSON),
		"Memories":    memories,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to render analysis prompt")
	}

	return buf.String(), nil
}

// completionResult is the JSON shape requested from the completion backend
type completionResult struct {
	Analysis   string   `json:"analysis"`
	Confidence float64  `json:"confidence"`
	Drivers    []string `json:"drivers"`
	Actions    []string `json:"actions"`
}

// parseCompletion converts the completion text into an Answer. Backends do
// not always honor the JSON instruction; non-JSON output degrades to a raw
// analysis with zero confidence.
func parseCompletion(text string) *model.Answer {
	stripped := strings.TrimSpace(text)
	stripped = strings.TrimPrefix(stripped, "```json")
	stripped = strings.TrimPrefix(stripped, "```")
	stripped = strings.TrimSuffix(stripped, "```")
	stripped = strings.TrimSpace(stripped)

	var result completionResult
	if err := json.Unmarshal([]byte(stripped), &result); err != nil || result.Analysis == "" {
		return &model.Answer{Analysis: text}
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 100 {
		result.Confidence = 100
	}

	return &model.Answer{
		Analysis:   result.Analysis,
		Confidence: result.Confidence,
		Drivers:    result.Drivers,
		Actions:    result.Actions,
	}
}
