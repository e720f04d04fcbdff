package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func samplePlan() *ExecutionPlan {
	return &ExecutionPlan{
		Root: &PlanNode{
			NodeType:        "Nested Loop",
			TotalCost:       1890.45,
			ActualTotalTime: 812.265,
			ActualRows:      50000,
			ActualLoops:     1,
			Plans: []*PlanNode{
				{NodeType: "Seq Scan", RelationName: "orders", ActualLoops: 1},
				{NodeType: "Index Scan", RelationName: "order_items", ActualTotalTime: 0.052, ActualLoops: 10000},
			},
		},
		PlanningTime:  0.54,
		ExecutionTime: 815.901,
	}
}

func TestWalkPreOrder(t *testing.T) {
	got := samplePlan().NodeTypes()
	want := []string{"Nested Loop", "Seq Scan", "Index Scan"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("node types = %v, want %v", got, want)
	}
}

func TestNodeCount(t *testing.T) {
	if n := samplePlan().Root.NodeCount(); n != 3 {
		t.Fatalf("node count = %d, want 3", n)
	}
}

func TestActualDurationMultipliesLoops(t *testing.T) {
	inner := samplePlan().Root.Plans[1]
	want := time.Duration(0.052 * 10000 * float64(time.Millisecond))
	if got := inner.ActualDuration(); got != want {
		t.Fatalf("duration = %v, want %v", got, want)
	}
}

func TestExecutionDurations(t *testing.T) {
	plan := samplePlan()
	if plan.PlanningDuration() != 540*time.Microsecond {
		t.Fatalf("planning duration = %v", plan.PlanningDuration())
	}
	if plan.ExecutionDuration() <= 815*time.Millisecond {
		t.Fatalf("execution duration = %v", plan.ExecutionDuration())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	plan := samplePlan()
	data, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded ExecutionPlan
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(plan.NodeTypes(), decoded.NodeTypes()) {
		t.Fatalf("round trip changed node order: %v vs %v", plan.NodeTypes(), decoded.NodeTypes())
	}
	if decoded.Root.Plans[1].ActualLoops != 10000 {
		t.Fatalf("loops = %d", decoded.Root.Plans[1].ActualLoops)
	}
}
