// Package bench times repeated EXPLAIN ANALYZE executions of a query and
// summarizes the measurements, with an approximate two-sample comparison
// between result sets.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/config"
	"github.com/sqltrace/sqltrace/internal/model"
)

// ErrAllRunsFailed is returned when no measured run produced a plan.
var ErrAllRunsFailed = errors.New("all benchmark runs failed")

// PlanSource produces execution plans for a query. Engines satisfy it.
type PlanSource interface {
	ExplainQuery(ctx context.Context, query string) (*model.ExecutionPlan, error)
}

// Run is a single measured execution.
type Run struct {
	ID            string               `json:"id"`
	ExecutionTime time.Duration        `json:"execution_time"`
	Plan          *model.ExecutionPlan `json:"execution_plan,omitempty"`
	Analysis      *advisor.Analysis    `json:"advisor_analysis,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
}

// Result bundles the runs of one benchmarked query with their statistics.
type Result struct {
	Query      string                 `json:"query"`
	Runs       []Run                  `json:"runs"`
	Statistics Statistics             `json:"statistics"`
	Config     config.BenchmarkConfig `json:"config"`
}

// Suite runs benchmarks against a plan source.
type Suite struct {
	source  PlanSource
	advisor *advisor.Advisor
	cfg     config.BenchmarkConfig
	logger  log.Logger
}

// NewSuite builds a suite. A nil logger is replaced with a no-op one.
func NewSuite(source PlanSource, adv *advisor.Advisor, cfg config.BenchmarkConfig, logger log.Logger) (*Suite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("benchmark config: %w", err)
	}
	if adv == nil {
		adv = advisor.Default()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Suite{source: source, advisor: adv, cfg: cfg, logger: logger}, nil
}

// BenchmarkQuery executes warmup runs, discards them, then times the
// configured number of measured runs. Individual run failures are counted;
// only a fully failed benchmark is an error.
func (s *Suite) BenchmarkQuery(ctx context.Context, query string) (*Result, error) {
	for i := 0; i < s.cfg.WarmupRuns; i++ {
		if _, err := s.executeRun(ctx, query); err != nil {
			level.Debug(s.logger).Log("msg", "warmup run failed", "warmup", i, "err", err)
		}
	}

	runs := make([]Run, 0, s.cfg.BenchmarkRuns)
	failed := 0
	var lastErr error
	for i := 0; i < s.cfg.BenchmarkRuns; i++ {
		run, err := s.executeRun(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("benchmark interrupted: %w", ctx.Err())
			}
			level.Warn(s.logger).Log("msg", "benchmark run failed", "run", i, "err", err)
			failed++
			lastErr = err
			continue
		}
		runs = append(runs, run)
	}

	if len(runs) == 0 {
		return nil, fmt.Errorf("benchmark %q: %w: %v", query, ErrAllRunsFailed, lastErr)
	}

	stats := computeStatistics(runs, failed)
	level.Info(s.logger).Log(
		"msg", "benchmark complete",
		"query", query,
		"successful_runs", stats.SuccessfulRuns,
		"failed_runs", stats.FailedRuns,
		"avg_ms", float64(stats.AvgExecutionTime)/float64(time.Millisecond),
	)
	return &Result{
		Query:      query,
		Runs:       runs,
		Statistics: stats,
		Config:     s.cfg,
	}, nil
}

// executeRun makes exactly one timed call to the plan source. The timed
// window covers only that call; analysis happens after the clock stops.
func (s *Suite) executeRun(ctx context.Context, query string) (Run, error) {
	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	plan, err := s.source.ExplainQuery(runCtx, query)
	elapsed := time.Since(start)
	if err != nil {
		return Run{}, err
	}

	run := Run{
		ID:            uuid.NewString(),
		ExecutionTime: elapsed,
		Timestamp:     time.Now(),
	}
	if s.cfg.IncludePlans {
		run.Plan = plan
		if s.cfg.IncludeAdvisorAnalysis {
			run.Analysis = s.advisor.Analyze(plan)
		}
	}
	return run, nil
}
