package text

import (
	"strings"
	"testing"
	"time"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/bench"
	"github.com/sqltrace/sqltrace/internal/plantree"
	"github.com/sqltrace/sqltrace/test"
)

func TestTree(t *testing.T) {
	plan := test.LoadSamplePlan(t, "nested_loop.json")
	tree, err := plantree.Build(plan, plantree.DefaultPolicy())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var b strings.Builder
	if err := Tree(&b, tree); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "[-] Nested Loop") {
		t.Fatalf("expanded root missing marker:\n%s", out)
	}
	if !strings.Contains(out, "Seq Scan on orders o") {
		t.Fatalf("child label missing:\n%s", out)
	}
	if !strings.Contains(out, "loops 10000") {
		t.Fatalf("loop count missing:\n%s", out)
	}
	if len(strings.Split(strings.TrimRight(out, "\n"), "\n")) != 3 {
		t.Fatalf("expected 3 lines:\n%s", out)
	}
}

func TestTreeCollapsedRoot(t *testing.T) {
	plan := test.LoadSamplePlan(t, "nested_loop.json")
	tree, err := plantree.Build(plan, plantree.Policy{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var b strings.Builder
	if err := Tree(&b, tree); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(b.String(), "[+] Nested Loop") {
		t.Fatalf("collapsed marker missing:\n%s", b.String())
	}
	if strings.Contains(b.String(), "Seq Scan") {
		t.Fatalf("collapsed subtree should be hidden:\n%s", b.String())
	}
}

func TestTreeRejectsEmpty(t *testing.T) {
	if err := Tree(&strings.Builder{}, nil); err == nil {
		t.Fatalf("expected error for nil tree")
	}
}

func TestAnalysisMarkdown(t *testing.T) {
	plan := test.LoadSamplePlan(t, "seq_scan.json")
	out := AnalysisMarkdown(advisor.Default().Analyze(plan))

	for _, want := range []string{
		"Performance score: **60/100**",
		"Most expensive operation: Seq Scan",
		"[High] Expensive Sequential Scan Detected",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestBenchmarkMarkdown(t *testing.T) {
	result := &bench.Result{
		Query: "SELECT 1",
		Statistics: bench.Statistics{
			AvgExecutionTime: 30 * time.Millisecond,
			MinExecutionTime: 10 * time.Millisecond,
			MaxExecutionTime: 50 * time.Millisecond,
			P95ExecutionTime: 40 * time.Millisecond,
			SuccessfulRuns:   5,
		},
	}
	out := BenchmarkMarkdown(result)
	if !strings.Contains(out, "| Runs | 5 ok / 0 failed |") {
		t.Fatalf("runs row missing:\n%s", out)
	}
	if !strings.Contains(out, "| p95 | 40.000 ms |") {
		t.Fatalf("p95 row missing:\n%s", out)
	}
}

func TestComparisonMarkdown(t *testing.T) {
	c := &bench.Comparison{
		LabelA:                  "Before",
		LabelB:                  "After",
		PerformanceImprovement:  50,
		StatisticalSignificance: bench.Significant,
		Metrics: bench.ComparisonMetrics{
			AvgTimeDiff: 50 * time.Millisecond,
		},
	}
	out := ComparisonMarkdown(c)
	if !strings.Contains(out, "After is 50.0% faster than Before") {
		t.Fatalf("direction line missing:\n%s", out)
	}

	c.PerformanceImprovement = -25
	out = ComparisonMarkdown(c)
	if !strings.Contains(out, "After is 25.0% slower than Before") {
		t.Fatalf("slower line missing:\n%s", out)
	}
}
