package model

import (
	"strings"
	"time"
)

// QueryKind is a coarse fingerprint of a query used for analytics and
// selection bias. It is derived from the query text only.
type QueryKind string

const (
	QueryKindChurn     QueryKind = "churn_analysis"
	QueryKindFinancial QueryKind = "financial_analysis"
	QueryKindSupport   QueryKind = "support_analysis"
	QueryKindGeneral   QueryKind = "general"
)

// ClassifyQuery assigns a QueryKind by keyword inspection
func ClassifyQuery(query string) QueryKind {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "churn") || strings.Contains(q, "retention"):
		return QueryKindChurn
	case strings.Contains(q, "revenue") || strings.Contains(q, "financial"):
		return QueryKindFinancial
	case strings.Contains(q, "support") || strings.Contains(q, "ticket"):
		return QueryKindSupport
	default:
		return QueryKindGeneral
	}
}

// PerformanceRecord is one append-only row per completed query. Records are
// aggregated into running summaries and never mutated individually.
type PerformanceRecord struct {
	Kind          QueryKind
	ExecutionTime time.Duration
	Confidence    float64 // 0-100
	ToolsUsed     []ToolName
	ToolElapsed   map[ToolName]time.Duration
	ToolErrors    map[ToolName]ErrorKind
	Success       bool
	TrackedAt     time.Time
}
