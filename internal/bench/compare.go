package bench

import (
	"math"
	"time"
)

// Significance grades how trustworthy an observed difference is. The test
// is a rough two-sample approximation with fixed z thresholds, not a real
// t-test; it is meant to flag noise, not publish results.
type Significance string

const (
	HighlySignificant     Significance = "HighlySignificant"
	Significant           Significance = "Significant"
	MarginallySignificant Significance = "MarginallySignificant"
	NotSignificant        Significance = "NotSignificant"
)

// ComparisonMetrics carries the detailed deltas behind a comparison.
type ComparisonMetrics struct {
	AvgTimeDiff      time.Duration `json:"avg_time_diff"`
	CostDiff         *float64      `json:"cost_diff,omitempty"`
	AdvisorScoreDiff *float64      `json:"advisor_score_diff,omitempty"`
	ConfidenceLow    time.Duration `json:"confidence_low"`
	ConfidenceHigh   time.Duration `json:"confidence_high"`
}

// Comparison relates two benchmark results. PerformanceImprovement is
// positive when B ran faster than A.
type Comparison struct {
	LabelA                  string            `json:"label_a"`
	LabelB                  string            `json:"label_b"`
	PerformanceImprovement  float64           `json:"performance_improvement"`
	StatisticalSignificance Significance      `json:"statistical_significance"`
	Metrics                 ComparisonMetrics `json:"metrics"`
}

// Compare summarizes the difference between two results.
func Compare(a, b *Result, labelA, labelB string) Comparison {
	timeA := float64(a.Statistics.AvgExecutionTime.Nanoseconds())
	timeB := float64(b.Statistics.AvgExecutionTime.Nanoseconds())

	improvement := 0.0
	if timeA > 0 {
		improvement = (timeA - timeB) / timeA * 100.0
	}

	diff := a.Statistics.AvgExecutionTime - b.Statistics.AvgExecutionTime
	absDiff := diff
	if absDiff < 0 {
		absDiff = -absDiff
	}

	low, high := confidenceInterval(a, b)
	return Comparison{
		LabelA:                  labelA,
		LabelB:                  labelB,
		PerformanceImprovement:  improvement,
		StatisticalSignificance: significance(a, b),
		Metrics: ComparisonMetrics{
			AvgTimeDiff:      absDiff,
			CostDiff:         diffOptional(a.Statistics.AvgCost, b.Statistics.AvgCost),
			AdvisorScoreDiff: diffOptional(a.Statistics.AvgAdvisorScore, b.Statistics.AvgAdvisorScore),
			ConfidenceLow:    low,
			ConfidenceHigh:   high,
		},
	}
}

// diffOptional is b minus a when both sides are present.
func diffOptional(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := *b - *a
	return &d
}

func significance(a, b *Result) Significance {
	nA := float64(a.Statistics.SuccessfulRuns)
	nB := float64(b.Statistics.SuccessfulRuns)
	if nA < 3 || nB < 3 {
		return NotSignificant
	}

	meanDiff := math.Abs(float64(a.Statistics.AvgExecutionTime.Nanoseconds()) -
		float64(b.Statistics.AvgExecutionTime.Nanoseconds()))
	pooledStd := (float64(a.Statistics.StdDeviation.Nanoseconds()) +
		float64(b.Statistics.StdDeviation.Nanoseconds())) / 2.0
	if pooledStd == 0 {
		return NotSignificant
	}

	t := meanDiff / (pooledStd * math.Sqrt(1.0/nA+1.0/nB))
	switch {
	case t > 2.576:
		return HighlySignificant
	case t > 1.96:
		return Significant
	case t > 1.645:
		return MarginallySignificant
	default:
		return NotSignificant
	}
}

// confidenceInterval bounds the mean difference (A minus B) by one
// averaged standard deviation on each side, clamped at zero.
func confidenceInterval(a, b *Result) (time.Duration, time.Duration) {
	diff := a.Statistics.AvgExecutionTime.Nanoseconds() - b.Statistics.AvgExecutionTime.Nanoseconds()
	margin := (a.Statistics.StdDeviation.Nanoseconds() + b.Statistics.StdDeviation.Nanoseconds()) / 2

	low := diff - margin
	if low < 0 {
		low = 0
	}
	high := diff + margin
	if high < 0 {
		high = 0
	}
	return time.Duration(low), time.Duration(high)
}
