package model

import "time"

// Degradation reasons attached to an Answer. An answer can carry several, e.g.
// degraded_selection together with no_data.
const (
	DegradedSelection      = "degraded_selection"
	DegradedNoData         = "no_data"
	DegradedCachedFallback = "cached_fallback"
	DegradedNoMemory       = "no_memory_context"
)

// Answer is the structured response returned to the caller. A degraded answer
// is still a complete Answer; the flags describe what was missing while
// producing it.
type Answer struct {
	Analysis   string   `json:"analysis"`
	Confidence float64  `json:"confidence"` // 0-100
	Drivers    []string `json:"drivers,omitempty"`
	Actions    []string `json:"actions,omitempty"`

	// DataSources lists the tools whose results contributed to the analysis,
	// in selection order. Tools that failed or timed out are not listed.
	DataSources []ToolName `json:"data_sources"`

	Performance     AnswerPerformance `json:"performance"`
	Degraded        bool              `json:"degraded"`
	DegradedReasons []string          `json:"degraded_reasons,omitempty"`
}

// AnswerPerformance carries execution metadata of a single invocation
type AnswerPerformance struct {
	ExecutionTime     time.Duration `json:"execution_time"`
	ToolsUsed         []ToolName    `json:"tools_used"`
	MemoryContextSize int           `json:"memory_context_size"`
}

// MarkDegraded appends a degradation reason, keeping the list free of
// duplicates
func (x *Answer) MarkDegraded(reason string) {
	x.Degraded = true
	for _, r := range x.DegradedReasons {
		if r == reason {
			return
		}
	}
	x.DegradedReasons = append(x.DegradedReasons, reason)
}
