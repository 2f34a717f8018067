package performance_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/performance"
	"github.com/m-mizutani/gt"
)

func record(kind model.QueryKind, execTime time.Duration, confidence float64, success bool) *model.PerformanceRecord {
	return &model.PerformanceRecord{
		Kind:          kind,
		ExecutionTime: execTime,
		Confidence:    confidence,
		Success:       success,
		TrackedAt:     time.Now(),
	}
}

func TestTrackerAggregates(t *testing.T) {
	tracker := performance.NewTracker()

	tracker.Track(record(model.QueryKindChurn, time.Second, 80, true))
	tracker.Track(record(model.QueryKindChurn, 3*time.Second, 60, true))
	tracker.Track(record(model.QueryKindFinancial, 2*time.Second, 70, false))

	s := tracker.Summary()
	gt.Equal(t, s.TotalQueries, 3)
	gt.Number(t, s.SuccessRate).Greater(0.66).Less(0.67)
	gt.Equal(t, s.AvgLatency, 2*time.Second)
	gt.Number(t, s.AvgConfidence).Greater(69.9).Less(70.1)
	gt.Equal(t, s.QueryKinds[model.QueryKindChurn], 2)
	gt.Equal(t, s.QueryKinds[model.QueryKindFinancial], 1)
}

func TestTrackerToolStats(t *testing.T) {
	tracker := performance.NewTracker()

	rec := record(model.QueryKindChurn, time.Second, 80, true)
	rec.ToolsUsed = []model.ToolName{"customer_data", "support_analysis"}
	rec.ToolElapsed = map[model.ToolName]time.Duration{
		"customer_data":    200 * time.Millisecond,
		"support_analysis": 400 * time.Millisecond,
	}
	rec.ToolErrors = map[model.ToolName]model.ErrorKind{
		"support_analysis": model.ErrorKindTimeout,
	}
	tracker.Track(rec)

	rec2 := record(model.QueryKindGeneral, time.Second, 90, true)
	rec2.ToolsUsed = []model.ToolName{"customer_data"}
	rec2.ToolElapsed = map[model.ToolName]time.Duration{
		"customer_data": 400 * time.Millisecond,
	}
	tracker.Track(rec2)

	gt.Number(t, tracker.ToolUsageRate("customer_data")).Equal(1.0)
	gt.Number(t, tracker.ToolUsageRate("support_analysis")).Equal(0.5)
	gt.Number(t, tracker.ToolUsageRate("financial_metrics")).Equal(0.0)

	gt.Number(t, tracker.ToolErrorRate("customer_data")).Equal(0.0)
	gt.Number(t, tracker.ToolErrorRate("support_analysis")).Equal(1.0)

	gt.Equal(t, tracker.ToolAvgLatency("customer_data"), 300*time.Millisecond)
	gt.Equal(t, tracker.ToolAvgLatency("financial_metrics"), time.Duration(0))
}

func TestTrackerEmpty(t *testing.T) {
	tracker := performance.NewTracker()

	s := tracker.Summary()
	gt.Equal(t, s.TotalQueries, 0)
	gt.Equal(t, s.Grade(), "-")
	gt.Number(t, tracker.ToolUsageRate("customer_data")).Equal(0.0)

	recs := s.Recommendations()
	gt.A(t, recs).Length(1)
	gt.Equal(t, recs[0].Type, "info")
}

func TestSummaryGrade(t *testing.T) {
	tracker := performance.NewTracker()

	// Fast and confident: timeScore 100, confidence 90 -> overall 95
	tracker.Track(record(model.QueryKindGeneral, time.Second, 90, true))
	gt.Equal(t, tracker.Summary().Grade(), "A+")

	// Drag the average down with a slow, low-confidence query
	tracker.Track(record(model.QueryKindGeneral, 9*time.Second, 30, true))
	// avg latency 5s -> timeScore 40; avg confidence 60 -> overall 50
	gt.Equal(t, tracker.Summary().Grade(), "D")
}

func TestSummaryRecommendations(t *testing.T) {
	tracker := performance.NewTracker()

	rec := record(model.QueryKindGeneral, 5*time.Second, 50, true)
	rec.ToolsUsed = []model.ToolName{"customer_data"}
	rec.ToolElapsed = map[model.ToolName]time.Duration{
		"customer_data": 4 * time.Second,
	}
	tracker.Track(rec)

	recs := tracker.Summary().Recommendations()

	types := make(map[string]bool)
	for _, r := range recs {
		types[r.Type] = true
	}

	gt.True(t, types["performance"]) // avg latency above 3s
	gt.True(t, types["tools"])       // efficiency 100/4s = 25 < 50
	gt.True(t, types["accuracy"])    // avg confidence below 75
}

func TestToolSummaryEfficiency(t *testing.T) {
	ts := performance.ToolSummary{AvgLatency: 2 * time.Second}
	gt.Number(t, ts.EfficiencyScore()).Equal(50.0)

	ts = performance.ToolSummary{}
	gt.Number(t, ts.EfficiencyScore()).Equal(100.0)
}
