package bench

import (
	"math"
	"sort"
	"time"
)

// Statistics summarizes the measured runs of one benchmark.
type Statistics struct {
	AvgExecutionTime time.Duration `json:"avg_execution_time"`
	MinExecutionTime time.Duration `json:"min_execution_time"`
	MaxExecutionTime time.Duration `json:"max_execution_time"`
	StdDeviation     time.Duration `json:"std_deviation"`
	P95ExecutionTime time.Duration `json:"p95_execution_time"`
	SuccessfulRuns   int           `json:"successful_runs"`
	FailedRuns       int           `json:"failed_runs"`
	AvgCost          *float64      `json:"avg_cost,omitempty"`
	AvgAdvisorScore  *float64      `json:"avg_advisor_score,omitempty"`
}

func computeStatistics(runs []Run, failed int) Statistics {
	times := make([]time.Duration, len(runs))
	for i, r := range runs {
		times[i] = r.ExecutionTime
	}

	mean := meanDuration(times)
	return Statistics{
		AvgExecutionTime: mean,
		MinExecutionTime: minDuration(times),
		MaxExecutionTime: maxDuration(times),
		StdDeviation:     stdDeviation(times, mean),
		P95ExecutionTime: percentile(times, 0.95),
		SuccessfulRuns:   len(runs),
		FailedRuns:       failed,
		AvgCost:          averageCost(runs),
		AvgAdvisorScore:  averageScore(runs),
	}
}

func meanDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var total int64
	for _, d := range ds {
		total += d.Nanoseconds()
	}
	return time.Duration(total / int64(len(ds)))
}

func minDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	min := ds[0]
	for _, d := range ds[1:] {
		if d < min {
			min = d
		}
	}
	return min
}

func maxDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	max := ds[0]
	for _, d := range ds[1:] {
		if d > max {
			max = d
		}
	}
	return max
}

// stdDeviation is the sample standard deviation (n-1 denominator).
// Fewer than two samples have no spread.
func stdDeviation(ds []time.Duration, mean time.Duration) time.Duration {
	if len(ds) < 2 {
		return 0
	}
	var sum float64
	for _, d := range ds {
		diff := float64(d.Nanoseconds()) - float64(mean.Nanoseconds())
		sum += diff * diff
	}
	variance := sum / float64(len(ds)-1)
	return time.Duration(math.Sqrt(variance))
}

// percentile uses the nearest-rank method on a sorted copy: the value at
// index floor(p * (n-1)).
func percentile(ds []time.Duration, p float64) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(ds))
	copy(sorted, ds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func averageCost(runs []Run) *float64 {
	var sum float64
	n := 0
	for _, r := range runs {
		if r.Plan == nil || r.Plan.Root == nil {
			continue
		}
		sum += r.Plan.Root.TotalCost
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func averageScore(runs []Run) *float64 {
	var sum float64
	n := 0
	for _, r := range runs {
		if r.Analysis == nil {
			continue
		}
		sum += float64(r.Analysis.PerformanceScore)
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
