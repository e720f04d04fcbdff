package model

import "time"

// PlanNode captures one operator in a database execution plan.
type PlanNode struct {
	// NodeType is the operator tag, e.g. "Seq Scan" or "Nested Loop".
	NodeType     string `json:"node_type"`
	RelationName string `json:"relation_name,omitempty"`
	Alias        string `json:"alias,omitempty"`

	StartupCost float64 `json:"startup_cost"`
	TotalCost   float64 `json:"total_cost"`

	// ActualStartupTime is in milliseconds; nil when the plan was produced
	// without ANALYZE.
	ActualStartupTime *float64 `json:"actual_startup_time,omitempty"`
	ActualTotalTime   float64  `json:"actual_total_time"`
	ActualRows        uint64   `json:"actual_rows"`
	ActualLoops       uint64   `json:"actual_loops"`

	Plans []*PlanNode `json:"plans,omitempty"`

	// Extra preserves engine-specific fields verbatim (e.g. "Filter",
	// "Parent Relationship") so advisory rules can inspect keys that are
	// not promoted to first-class attributes.
	Extra map[string]any `json:"extra,omitempty"`
}

// ActualDuration returns the time spent in this node across all loops.
func (n *PlanNode) ActualDuration() time.Duration {
	loops := n.ActualLoops
	if loops == 0 {
		loops = 1
	}
	ms := n.ActualTotalTime * float64(loops)
	return time.Duration(ms * float64(time.Millisecond))
}

// Walk visits the subtree rooted at n in depth-first pre-order.
func (n *PlanNode) Walk(fn func(*PlanNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Plans {
		child.Walk(fn)
	}
}

// NodeCount returns the number of nodes in the subtree rooted at n.
func (n *PlanNode) NodeCount() int {
	count := 0
	n.Walk(func(*PlanNode) { count++ })
	return count
}

// ExecutionPlan is a complete plan produced by one EXPLAIN call.
// It is built once by the parser and never mutated afterwards.
type ExecutionPlan struct {
	Root          *PlanNode `json:"root"`
	PlanningTime  float64   `json:"planning_time"`
	ExecutionTime float64   `json:"execution_time"`
}

// PlanningDuration converts the planner's millisecond figure to a Duration.
func (p *ExecutionPlan) PlanningDuration() time.Duration {
	return time.Duration(p.PlanningTime * float64(time.Millisecond))
}

// ExecutionDuration converts the executor's millisecond figure to a Duration.
func (p *ExecutionPlan) ExecutionDuration() time.Duration {
	return time.Duration(p.ExecutionTime * float64(time.Millisecond))
}

// NodeTypes returns the pre-order sequence of operator tags.
func (p *ExecutionPlan) NodeTypes() []string {
	if p == nil || p.Root == nil {
		return nil
	}
	var out []string
	p.Root.Walk(func(n *PlanNode) { out = append(out, n.NodeType) })
	return out
}
