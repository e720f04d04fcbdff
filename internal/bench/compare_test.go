package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func resultWith(mean, stddev time.Duration, runs int) *Result {
	return &Result{
		Statistics: Statistics{
			AvgExecutionTime: mean,
			StdDeviation:     stddev,
			SuccessfulRuns:   runs,
		},
	}
}

func TestCompareImprovementPercent(t *testing.T) {
	a := resultWith(100*time.Millisecond, time.Millisecond, 5)
	b := resultWith(50*time.Millisecond, time.Millisecond, 5)

	c := Compare(a, b, "Query A", "Query B")
	require.Equal(t, "Query A", c.LabelA)
	require.Equal(t, "Query B", c.LabelB)
	require.InDelta(t, 50.0, c.PerformanceImprovement, 0.001)
	require.Equal(t, 50*time.Millisecond, c.Metrics.AvgTimeDiff)
}

func TestCompareSlower(t *testing.T) {
	a := resultWith(50*time.Millisecond, time.Millisecond, 5)
	b := resultWith(100*time.Millisecond, time.Millisecond, 5)

	c := Compare(a, b, "A", "B")
	require.InDelta(t, -100.0, c.PerformanceImprovement, 0.001)
	require.Equal(t, 50*time.Millisecond, c.Metrics.AvgTimeDiff)
}

func TestCompareZeroBaselineMean(t *testing.T) {
	a := resultWith(0, 0, 5)
	b := resultWith(10*time.Millisecond, time.Millisecond, 5)
	c := Compare(a, b, "A", "B")
	require.Zero(t, c.PerformanceImprovement)
}

func TestSignificanceLevels(t *testing.T) {
	cases := []struct {
		name   string
		a, b   *Result
		expect Significance
	}{
		{
			name:   "too few runs",
			a:      resultWith(100*time.Millisecond, time.Millisecond, 2),
			b:      resultWith(50*time.Millisecond, time.Millisecond, 5),
			expect: NotSignificant,
		},
		{
			name:   "zero spread",
			a:      resultWith(100*time.Millisecond, 0, 5),
			b:      resultWith(50*time.Millisecond, 0, 5),
			expect: NotSignificant,
		},
		{
			// t = 50ms / (1ms * sqrt(0.4)) is enormous.
			name:   "large gap small noise",
			a:      resultWith(100*time.Millisecond, time.Millisecond, 5),
			b:      resultWith(50*time.Millisecond, time.Millisecond, 5),
			expect: HighlySignificant,
		},
		{
			// t = 1ms / (40ms * sqrt(0.4)) is about 0.04.
			name:   "small gap large noise",
			a:      resultWith(100*time.Millisecond, 40*time.Millisecond, 5),
			b:      resultWith(99*time.Millisecond, 40*time.Millisecond, 5),
			expect: NotSignificant,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Compare(tc.a, tc.b, "A", "B")
			require.Equal(t, tc.expect, c.StatisticalSignificance)
		})
	}
}

func TestConfidenceIntervalClampsAtZero(t *testing.T) {
	// B is slower, so the A-minus-B difference is negative and the
	// interval collapses to zero.
	a := resultWith(10*time.Millisecond, time.Millisecond, 5)
	b := resultWith(100*time.Millisecond, time.Millisecond, 5)

	c := Compare(a, b, "A", "B")
	require.Zero(t, c.Metrics.ConfidenceLow)
	require.Zero(t, c.Metrics.ConfidenceHigh)
}

func TestConfidenceIntervalBracketsDifference(t *testing.T) {
	a := resultWith(100*time.Millisecond, 10*time.Millisecond, 5)
	b := resultWith(60*time.Millisecond, 6*time.Millisecond, 5)

	c := Compare(a, b, "A", "B")
	require.Equal(t, 32*time.Millisecond, c.Metrics.ConfidenceLow)
	require.Equal(t, 48*time.Millisecond, c.Metrics.ConfidenceHigh)
}

func TestCompareOptionalDiffs(t *testing.T) {
	costA, costB := 500.0, 300.0
	scoreA, scoreB := 60.0, 80.0

	a := resultWith(100*time.Millisecond, time.Millisecond, 5)
	a.Statistics.AvgCost = &costA
	a.Statistics.AvgAdvisorScore = &scoreA
	b := resultWith(50*time.Millisecond, time.Millisecond, 5)
	b.Statistics.AvgCost = &costB
	b.Statistics.AvgAdvisorScore = &scoreB

	c := Compare(a, b, "A", "B")
	require.NotNil(t, c.Metrics.CostDiff)
	require.InDelta(t, -200.0, *c.Metrics.CostDiff, 0.001)
	require.NotNil(t, c.Metrics.AdvisorScoreDiff)
	require.InDelta(t, 20.0, *c.Metrics.AdvisorScoreDiff, 0.001)

	b.Statistics.AvgCost = nil
	c = Compare(a, b, "A", "B")
	require.Nil(t, c.Metrics.CostDiff)
}
