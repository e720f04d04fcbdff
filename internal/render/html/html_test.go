package html

import (
	"strings"
	"testing"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/test"
)

func TestRender(t *testing.T) {
	plan := test.LoadSamplePlan(t, "seq_scan.json")
	analysis := advisor.Default().Analyze(plan)

	var b strings.Builder
	if err := Render(&b, plan, analysis, Options{IncludeStyles: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"<title>sqltrace report</title>",
		"60/100",
		"Seq Scan on customers",
		"Expensive Sequential Scan Detected",
		"<style>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output", want)
		}
	}
}

func TestRenderRejectsEmptyPlan(t *testing.T) {
	if err := Render(&strings.Builder{}, nil, nil, Options{}); err == nil {
		t.Fatalf("expected error for empty plan")
	}
}
