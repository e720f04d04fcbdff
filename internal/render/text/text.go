// Package text renders execution plans, advisor reports, and benchmark
// results as plain text and Markdown for the CLI and HTTP API.
package text

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/bench"
	"github.com/sqltrace/sqltrace/internal/plantree"
)

// Tree prints the indexed plan tree. Expanded nodes carry a [-] marker,
// collapsed nodes with children a [+], leaves neither.
func Tree(w io.Writer, t *plantree.Tree) error {
	if w == nil {
		return errors.New("text: writer is nil")
	}
	if t == nil || len(t.Nodes) == 0 {
		return errors.New("text: empty plan tree")
	}

	for _, vis := range t.VisibleNodes() {
		ui := t.Nodes[vis.Index]
		indent := strings.Repeat("  ", vis.Level)
		marker := "    "
		if len(ui.Children) > 0 {
			if ui.Expanded {
				marker = "[-] "
			} else {
				marker = "[+] "
			}
		}
		_, _ = fmt.Fprintf(w, "%s%s%s\n", indent, marker, nodeLine(ui))
	}
	return nil
}

func nodeLine(ui plantree.NodeUI) string {
	node := ui.Node
	label := node.NodeType
	if node.RelationName != "" {
		label += " on " + node.RelationName
		if node.Alias != "" && node.Alias != node.RelationName {
			label += " " + node.Alias
		}
	}
	return fmt.Sprintf("%s (cost=%.2f..%.2f) [actual time %.3f ms rows %d loops %d]",
		label, node.StartupCost, node.TotalCost,
		node.ActualTotalTime, node.ActualRows, node.ActualLoops)
}

// AnalysisMarkdown renders an advisor report.
func AnalysisMarkdown(a *advisor.Analysis) string {
	var b strings.Builder
	b.WriteString("# Query Analysis\n\n")
	_, _ = fmt.Fprintf(&b, "Performance score: **%d/100**\n\n", a.PerformanceScore)

	b.WriteString("## Summary\n")
	_, _ = fmt.Fprintf(&b, "- Suggestions: %d (%d high severity)\n",
		a.Summary.TotalSuggestions, a.Summary.HighSeverityCount)
	_, _ = fmt.Fprintf(&b, "- Most expensive operation: %s\n", a.Summary.MostExpensiveOperation)
	_, _ = fmt.Fprintf(&b, "- Total cost: %.2f\n", a.Summary.TotalCost)
	_, _ = fmt.Fprintf(&b, "- Potential improvement: %s\n\n", a.Summary.PotentialImprovement)

	b.WriteString("## Suggestions\n")
	if len(a.Suggestions) == 0 {
		b.WriteString("- No issues detected\n")
		return b.String()
	}
	for _, s := range a.Suggestions {
		_, _ = fmt.Fprintf(&b, "### [%s] %s\n", s.Severity, s.Title)
		_, _ = fmt.Fprintf(&b, "%s\n\n", s.Description)
		_, _ = fmt.Fprintf(&b, "- Recommendation: %s\n", s.Recommendation)
		_, _ = fmt.Fprintf(&b, "- Impact: %s\n", s.Impact)
		if s.NodeIndex != nil {
			_, _ = fmt.Fprintf(&b, "- Plan node: %d\n", *s.NodeIndex)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BenchmarkMarkdown renders the statistics of one benchmark result.
func BenchmarkMarkdown(r *bench.Result) string {
	var b strings.Builder
	b.WriteString("# Benchmark\n\n")
	_, _ = fmt.Fprintf(&b, "Query: `%s`\n\n", r.Query)

	stats := r.Statistics
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---:|\n")
	_, _ = fmt.Fprintf(&b, "| Runs | %d ok / %d failed |\n", stats.SuccessfulRuns, stats.FailedRuns)
	_, _ = fmt.Fprintf(&b, "| Average | %s |\n", fmtDuration(stats.AvgExecutionTime))
	_, _ = fmt.Fprintf(&b, "| Min | %s |\n", fmtDuration(stats.MinExecutionTime))
	_, _ = fmt.Fprintf(&b, "| Max | %s |\n", fmtDuration(stats.MaxExecutionTime))
	_, _ = fmt.Fprintf(&b, "| Std deviation | %s |\n", fmtDuration(stats.StdDeviation))
	_, _ = fmt.Fprintf(&b, "| p95 | %s |\n", fmtDuration(stats.P95ExecutionTime))
	if stats.AvgCost != nil {
		_, _ = fmt.Fprintf(&b, "| Average cost | %.2f |\n", *stats.AvgCost)
	}
	if stats.AvgAdvisorScore != nil {
		_, _ = fmt.Fprintf(&b, "| Average advisor score | %.1f |\n", *stats.AvgAdvisorScore)
	}
	return b.String()
}

// ComparisonMarkdown renders a two-benchmark comparison.
func ComparisonMarkdown(c *bench.Comparison) string {
	var b strings.Builder
	b.WriteString("# Benchmark Comparison\n\n")
	_, _ = fmt.Fprintf(&b, "%s vs %s\n\n", c.LabelA, c.LabelB)

	direction := "faster"
	improvement := c.PerformanceImprovement
	if improvement < 0 {
		direction = "slower"
		improvement = -improvement
	}
	_, _ = fmt.Fprintf(&b, "- %s is %.1f%% %s than %s\n", c.LabelB, improvement, direction, c.LabelA)
	_, _ = fmt.Fprintf(&b, "- Statistical significance: %s\n", c.StatisticalSignificance)
	_, _ = fmt.Fprintf(&b, "- Average time difference: %s\n", fmtDuration(c.Metrics.AvgTimeDiff))
	_, _ = fmt.Fprintf(&b, "- Confidence interval: %s .. %s\n",
		fmtDuration(c.Metrics.ConfidenceLow), fmtDuration(c.Metrics.ConfidenceHigh))
	if c.Metrics.CostDiff != nil {
		_, _ = fmt.Fprintf(&b, "- Cost difference: %+.2f\n", *c.Metrics.CostDiff)
	}
	if c.Metrics.AdvisorScoreDiff != nil {
		_, _ = fmt.Fprintf(&b, "- Advisor score difference: %+.1f\n", *c.Metrics.AdvisorScoreDiff)
	}
	return b.String()
}

func fmtDuration(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", float64(d)/float64(time.Millisecond))
}
