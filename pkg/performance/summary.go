package performance

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/augur/pkg/model"
)

// Summary is an aggregated, read-only view over all tracked queries
type Summary struct {
	TotalQueries  int
	SuccessRate   float64
	AvgLatency    time.Duration
	LatencyStdDev time.Duration
	AvgConfidence float64 // 0-100
	Tools         map[model.ToolName]ToolSummary
	QueryKinds    map[model.QueryKind]int
}

// ToolSummary aggregates one tool's executions
type ToolSummary struct {
	Uses       int
	ErrorRate  float64
	AvgLatency time.Duration
	UsageRate  float64
}

// EfficiencyScore rates the tool by inverse latency; higher is better
func (x ToolSummary) EfficiencyScore() float64 {
	sec := x.AvgLatency.Seconds()
	if sec <= 0 {
		return 100
	}
	return 100 / sec
}

// Grade rates overall performance from response time and confidence
func (s *Summary) Grade() string {
	if s.TotalQueries == 0 {
		return "-"
	}

	timeScore := 100.0
	if sec := s.AvgLatency.Seconds(); sec >= 2.0 {
		timeScore = 100 - (sec-2.0)*20
		if timeScore < 0 {
			timeScore = 0
		}
	}

	overall := (timeScore + s.AvgConfidence) / 2

	switch {
	case overall >= 90:
		return "A+"
	case overall >= 80:
		return "A"
	case overall >= 70:
		return "B"
	case overall >= 60:
		return "C"
	default:
		return "D"
	}
}

// Recommendation suggests an operational improvement derived from the
// aggregates
type Recommendation struct {
	Type     string
	Priority string
	Issue    string
	Action   string
}

// Recommendations derives improvement suggestions from the summary
func (s *Summary) Recommendations() []Recommendation {
	if s.TotalQueries == 0 {
		return []Recommendation{{
			Type:   "info",
			Issue:  "no data",
			Action: "Insufficient data for optimization",
		}}
	}

	var recs []Recommendation

	if s.AvgLatency > 3*time.Second {
		recs = append(recs, Recommendation{
			Type:     "performance",
			Priority: "high",
			Issue:    "slow response times",
			Action:   "Increase tool cache TTL or reduce per-tool timeout",
		})
	}

	var inefficient []string
	for name, ts := range s.Tools {
		if ts.Uses > 0 && ts.EfficiencyScore() < 50 {
			inefficient = append(inefficient, string(name))
		}
	}
	if len(inefficient) > 0 {
		recs = append(recs, Recommendation{
			Type:     "tools",
			Priority: "medium",
			Issue:    fmt.Sprintf("inefficient tools: %s", strings.Join(inefficient, ", ")),
			Action:   "Optimize data retrieval for the listed sources",
		})
	}

	if s.AvgConfidence < 75 {
		recs = append(recs, Recommendation{
			Type:     "accuracy",
			Priority: "high",
			Issue:    "low answer confidence",
			Action:   "Review tool coverage and memory threshold settings",
		})
	}

	return recs
}
