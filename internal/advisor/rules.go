package advisor

import (
	"fmt"
	"strings"

	"github.com/sqltrace/sqltrace/internal/model"
)

// The rules below are independent predicates over a single node. They share
// no state besides the append-only suggestion list, so their relative order
// only affects the order of the output.

func (a *Advisor) checkSequentialScan(node *model.PlanNode, suggestions *[]Suggestion, index int) {
	if node.NodeType != "Seq Scan" || node.TotalCost <= a.cfg.ExpensiveCostThreshold {
		return
	}
	relation := node.RelationName
	if relation == "" {
		relation = "unknown"
	}
	*suggestions = append(*suggestions, Suggestion{
		Type:     "Index",
		Severity: SeverityHigh,
		Title:    "Expensive Sequential Scan Detected",
		Description: fmt.Sprintf(
			"Sequential scan on table '%s' has high cost (%.2f). This indicates the entire table is being scanned.",
			relation, node.TotalCost),
		Recommendation: "Consider adding an index on frequently queried columns or adding WHERE clauses to reduce rows scanned.",
		NodeIndex:      &index,
		Impact:         "High - Could significantly reduce query execution time",
	})
}

// checkExpensiveOperation can co-fire with checkSequentialScan for the same
// node; the two report on different suggestion channels.
func (a *Advisor) checkExpensiveOperation(node *model.PlanNode, suggestions *[]Suggestion, index int) {
	if node.TotalCost <= a.cfg.ExpensiveCostThreshold*2 {
		return
	}
	*suggestions = append(*suggestions, Suggestion{
		Type:     "Performance",
		Severity: SeverityMedium,
		Title:    fmt.Sprintf("Expensive %s Operation", node.NodeType),
		Description: fmt.Sprintf(
			"%s operation has very high cost (%.2f). This is significantly above average.",
			node.NodeType, node.TotalCost),
		Recommendation: "Review query logic, consider query rewriting, or check if statistics are up to date.",
		NodeIndex:      &index,
		Impact:         "Medium - May benefit from optimization",
	})
}

func (a *Advisor) checkNestedLoop(node *model.PlanNode, suggestions *[]Suggestion, index int) {
	if node.NodeType != "Nested Loop" || node.ActualRows <= a.cfg.LargeScanThreshold {
		return
	}
	*suggestions = append(*suggestions, Suggestion{
		Type:     "Join",
		Severity: SeverityHigh,
		Title:    "Inefficient Nested Loop Join",
		Description: fmt.Sprintf(
			"Nested loop join processing %d rows. This join method is inefficient for large datasets.",
			node.ActualRows),
		Recommendation: "Consider adding indexes on join columns or restructuring the query to use hash or merge joins.",
		NodeIndex:      &index,
		Impact:         "High - Could dramatically improve join performance",
	})
}

func (a *Advisor) checkLargeSort(node *model.PlanNode, suggestions *[]Suggestion, index int) {
	if node.NodeType != "Sort" || node.ActualRows <= a.cfg.LargeScanThreshold {
		return
	}
	*suggestions = append(*suggestions, Suggestion{
		Type:     "Index",
		Severity: SeverityMedium,
		Title:    "Large Sort Operation",
		Description: fmt.Sprintf(
			"Sort operation processing %d rows. Large sorts can be memory intensive.",
			node.ActualRows),
		Recommendation: "Consider adding an index on the ORDER BY columns to avoid sorting, or limit result sets.",
		NodeIndex:      &index,
		Impact:         "Medium - Could reduce memory usage and improve performance",
	})
}

// checkFilterOpportunity inspects the opaque extra data for a "Filter" key.
// The rule can be disabled via configuration.
func (a *Advisor) checkFilterOpportunity(node *model.PlanNode, suggestions *[]Suggestion, index int) {
	if !a.cfg.EnableIndexRules {
		return
	}
	raw, ok := node.Extra["Filter"]
	if !ok {
		return
	}
	filter, ok := raw.(string)
	if !ok {
		filter = "complex condition"
	}
	*suggestions = append(*suggestions, Suggestion{
		Type:     "Index",
		Severity: SeverityMedium,
		Title:    "Potential Index Opportunity",
		Description: fmt.Sprintf(
			"Filter condition detected: %s. This might benefit from an index.", filter),
		Recommendation: "Consider creating an index on the filtered column(s) to improve query performance.",
		NodeIndex:      &index,
		Impact:         "Medium - Could improve filtering performance",
	})
}

func (a *Advisor) checkExpensiveJoin(node *model.PlanNode, suggestions *[]Suggestion, index int) {
	if !strings.Contains(node.NodeType, "Join") || node.TotalCost <= a.cfg.ExpensiveCostThreshold {
		return
	}
	*suggestions = append(*suggestions, Suggestion{
		Type:     "Join",
		Severity: SeverityMedium,
		Title:    fmt.Sprintf("Expensive %s Operation", node.NodeType),
		Description: fmt.Sprintf(
			"%s has high cost (%.2f). The join strategy may not be optimal.",
			node.NodeType, node.TotalCost),
		Recommendation: "Consider adding indexes on join columns, updating table statistics, or restructuring the query.",
		NodeIndex:      &index,
		Impact:         "Medium to High - Join optimization can significantly improve performance",
	})
}
