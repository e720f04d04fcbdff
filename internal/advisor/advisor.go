// Package advisor evaluates heuristic optimization rules over an execution
// plan and aggregates the findings into a scored report.
package advisor

import (
	"github.com/sqltrace/sqltrace/internal/config"
	"github.com/sqltrace/sqltrace/internal/model"
)

// Severity classifies the estimated impact of a suggestion.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// scoreDeduction returns the performance-score penalty for this severity.
func (s Severity) scoreDeduction() int {
	switch s {
	case SeverityHigh:
		return 20
	case SeverityMedium:
		return 10
	default:
		return 5
	}
}

// Suggestion is a single optimization finding.
type Suggestion struct {
	// Type groups related findings, e.g. "Index", "Join", "Performance".
	Type           string   `json:"suggestion_type"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	// NodeIndex is the advisor's own pre-order visit counter for the node
	// that triggered the rule. It is not comparable to plantree indices or
	// any other numbering over the same plan.
	NodeIndex *int   `json:"node_index,omitempty"`
	Impact    string `json:"impact"`
}

// Summary aggregates the findings of one analysis.
type Summary struct {
	TotalSuggestions       int     `json:"total_suggestions"`
	HighSeverityCount      int     `json:"high_severity_count"`
	MostExpensiveOperation string  `json:"most_expensive_operation"`
	TotalCost              float64 `json:"total_cost"`
	PotentialImprovement   string  `json:"potential_improvement"`
}

// Analysis is the complete advisor output for one plan. Suggestions appear
// in traversal order, not sorted by severity; callers sort if they need to.
type Analysis struct {
	Suggestions      []Suggestion `json:"suggestions"`
	PerformanceScore int          `json:"performance_score"`
	Summary          Summary      `json:"summary"`
}

// Advisor holds the rule configuration. It keeps no other state, so a single
// value may analyze independent plans concurrently.
type Advisor struct {
	cfg config.AdvisorConfig
}

// New creates an advisor with the given configuration.
func New(cfg config.AdvisorConfig) *Advisor {
	return &Advisor{cfg: cfg}
}

// Default creates an advisor with the built-in thresholds.
func Default() *Advisor {
	return New(config.Default().Advisor)
}

// Analyze traverses the plan depth-first in pre-order, evaluates every rule
// at every node and aggregates the result. Analyzing the same plan twice
// with the same configuration yields identical output.
func (a *Advisor) Analyze(plan *model.ExecutionPlan) *Analysis {
	analysis := &Analysis{}
	nodeCosts := map[string]float64{}

	if plan != nil && plan.Root != nil {
		visited := 0
		a.analyzeNode(plan.Root, &analysis.Suggestions, nodeCosts, &visited)
	}

	analysis.Summary = a.summarize(analysis.Suggestions, nodeCosts, plan)
	analysis.PerformanceScore = performanceScore(analysis.Suggestions, plan)
	return analysis
}

func (a *Advisor) analyzeNode(node *model.PlanNode, suggestions *[]Suggestion, nodeCosts map[string]float64, visited *int) {
	index := *visited
	*visited++

	// Last write wins per operator type; the summary takes the argmax.
	nodeCosts[node.NodeType] = node.TotalCost

	a.checkSequentialScan(node, suggestions, index)
	a.checkExpensiveOperation(node, suggestions, index)
	a.checkNestedLoop(node, suggestions, index)
	a.checkLargeSort(node, suggestions, index)
	a.checkFilterOpportunity(node, suggestions, index)
	a.checkExpensiveJoin(node, suggestions, index)

	for _, child := range node.Plans {
		a.analyzeNode(child, suggestions, nodeCosts, visited)
	}
}

func (a *Advisor) summarize(suggestions []Suggestion, nodeCosts map[string]float64, plan *model.ExecutionPlan) Summary {
	highCount := 0
	for _, s := range suggestions {
		if s.Severity == SeverityHigh {
			highCount++
		}
	}

	mostExpensive := "Unknown"
	bestCost := 0.0
	for op, cost := range nodeCosts {
		if mostExpensive == "Unknown" || cost > bestCost {
			mostExpensive = op
			bestCost = cost
		}
	}

	var improvement string
	switch {
	case highCount == 0:
		improvement = "Low - Query appears well optimized"
	case highCount <= 2:
		improvement = "Medium - Some optimization opportunities available"
	default:
		improvement = "High - Significant optimization potential"
	}

	totalCost := 0.0
	if plan != nil && plan.Root != nil {
		totalCost = plan.Root.TotalCost
	}

	return Summary{
		TotalSuggestions:       len(suggestions),
		HighSeverityCount:      highCount,
		MostExpensiveOperation: mostExpensive,
		TotalCost:              totalCost,
		PotentialImprovement:   improvement,
	}
}

// performanceScore starts at 100, deducts per suggestion severity
// (saturating at zero), deducts ten more for slow executions, and never
// reports below ten.
func performanceScore(suggestions []Suggestion, plan *model.ExecutionPlan) int {
	score := 100
	for _, s := range suggestions {
		score -= s.Severity.scoreDeduction()
		if score < 0 {
			score = 0
		}
	}

	if plan != nil && plan.ExecutionTime > 1000 {
		score -= 10
		if score < 0 {
			score = 0
		}
	}

	if score < 10 {
		score = 10
	}
	return score
}
