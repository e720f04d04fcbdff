// Package html renders a standalone HTML report for one analyzed query.
package html

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/model"
)

// Options configures the HTML renderer.
type Options struct {
	Title         string
	IncludeStyles bool
}

// Render writes an HTML report with the plan tree and the advisor findings.
func Render(w io.Writer, plan *model.ExecutionPlan, analysis *advisor.Analysis, opts Options) error {
	if plan == nil || plan.Root == nil {
		return fmt.Errorf("html render: empty plan")
	}
	if analysis == nil {
		analysis = advisor.Default().Analyze(plan)
	}
	if opts.Title == "" {
		opts.Title = "sqltrace report"
	}
	data := buildTemplateData(plan, analysis, opts)
	tpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("html render: compile template: %w", err)
	}
	if err := tpl.Execute(w, data); err != nil {
		return fmt.Errorf("html render: execute template: %w", err)
	}
	return nil
}

type templateData struct {
	Title         string
	IncludeStyles bool
	Summary       summaryView
	Root          *nodeView
	Suggestions   []suggestionView
}

type summaryView struct {
	Score         int
	ScoreClass    string
	ExecutionTime string
	PlanningTime  string
	NodeCount     int
	MostExpensive string
	Improvement   string
}

type suggestionView struct {
	Severity       string
	SeverityClass  string
	Title          string
	Description    string
	Recommendation string
	Impact         string
}

type nodeView struct {
	Label    string
	Cost     string
	Timing   string
	Children []*nodeView
}

func buildTemplateData(plan *model.ExecutionPlan, analysis *advisor.Analysis, opts Options) templateData {
	suggestions := make([]suggestionView, 0, len(analysis.Suggestions))
	for _, s := range analysis.Suggestions {
		suggestions = append(suggestions, suggestionView{
			Severity:       string(s.Severity),
			SeverityClass:  "severity-" + strings.ToLower(string(s.Severity)),
			Title:          s.Title,
			Description:    s.Description,
			Recommendation: s.Recommendation,
			Impact:         s.Impact,
		})
	}

	return templateData{
		Title:         opts.Title,
		IncludeStyles: opts.IncludeStyles,
		Summary: summaryView{
			Score:         analysis.PerformanceScore,
			ScoreClass:    scoreClass(analysis.PerformanceScore),
			ExecutionTime: fmt.Sprintf("%.3f ms", plan.ExecutionTime),
			PlanningTime:  fmt.Sprintf("%.3f ms", plan.PlanningTime),
			NodeCount:     plan.Root.NodeCount(),
			MostExpensive: analysis.Summary.MostExpensiveOperation,
			Improvement:   analysis.Summary.PotentialImprovement,
		},
		Root:        buildNodeView(plan.Root),
		Suggestions: suggestions,
	}
}

func buildNodeView(node *model.PlanNode) *nodeView {
	label := node.NodeType
	if node.RelationName != "" {
		label += " on " + node.RelationName
	}
	view := &nodeView{
		Label:  label,
		Cost:   fmt.Sprintf("cost %.2f..%.2f", node.StartupCost, node.TotalCost),
		Timing: fmt.Sprintf("%.3f ms · rows %d · loops %d", node.ActualTotalTime, node.ActualRows, node.ActualLoops),
	}
	for _, child := range node.Plans {
		view.Children = append(view.Children, buildNodeView(child))
	}
	return view
}

func scoreClass(score int) string {
	switch {
	case score >= 80:
		return "score-good"
	case score >= 50:
		return "score-fair"
	default:
		return "score-poor"
	}
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>{{.Title}}</title>
	{{- if .IncludeStyles }}
	<style>
		body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; margin: 0; padding: 0; background: #f7f7f8; color: #202124; }
		main { max-width: 960px; margin: 0 auto; padding: 32px 24px 48px; }
		header { background: #212a3b; color: #f7f7f8; padding: 32px 24px; }
		header h1 { margin: 0 0 8px; font-size: 28px; }
		header p { margin: 4px 0; opacity: 0.8; }
		section { margin-top: 32px; }
		section h2 { margin-bottom: 12px; font-size: 20px; }
		.summary-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 12px; }
		.summary-tile { background: #fff; border-radius: 10px; padding: 16px; box-shadow: 0 6px 18px rgba(13,28,39,0.12); }
		.summary-tile strong { display: block; font-size: 14px; text-transform: uppercase; letter-spacing: 0.04em; color: #5b7083; margin-bottom: 6px; }
		.summary-tile span { font-size: 18px; font-weight: 600; }
		.score-good { color: #1d8a4e; }
		.score-fair { color: #b25600; }
		.score-poor { color: #c62828; }
		.suggestion-list { list-style: none; margin: 0; padding: 0; display: flex; flex-direction: column; gap: 10px; }
		.suggestion-list li { background: #fff; border-radius: 12px; padding: 14px 16px; box-shadow: 0 4px 12px rgba(13,28,39,0.10); font-size: 14px; }
		.suggestion-list li h3 { margin: 0 0 6px; font-size: 15px; }
		.suggestion-list li p { margin: 4px 0; color: #364a63; }
		.suggestion-list li.severity-high { border-left: 4px solid #f44747; }
		.suggestion-list li.severity-medium { border-left: 4px solid #faae32; }
		.suggestion-list li.severity-low { border-left: 4px solid rgba(33,42,59,0.15); }
		.node-card { background: #fff; border-radius: 12px; margin-bottom: 12px; padding: 14px 18px; box-shadow: 0 8px 20px rgba(16,37,58,0.12); }
		.node-label { font-weight: 600; font-size: 15px; }
		.node-metrics { font-size: 13px; color: #5b7083; margin-top: 4px; }
		.node-children { margin-left: 24px; border-left: 1px dashed rgba(33,42,59,0.15); padding-left: 20px; }
	</style>
	{{- end }}
</head>
<body>
	<header>
		<h1>{{.Title}}</h1>
		<p>Execution {{.Summary.ExecutionTime}} · Planning {{.Summary.PlanningTime}} · Nodes {{.Summary.NodeCount}}</p>
		<p>Most expensive operation: {{.Summary.MostExpensive}}</p>
	</header>
	<main>
		<section>
			<h2>Summary</h2>
			<div class="summary-grid">
				<div class="summary-tile">
					<strong>Performance score</strong>
					<span class="{{.Summary.ScoreClass}}">{{.Summary.Score}}/100</span>
				</div>
				<div class="summary-tile">
					<strong>Execution time</strong>
					<span>{{.Summary.ExecutionTime}}</span>
				</div>
				<div class="summary-tile">
					<strong>Potential improvement</strong>
					<span>{{.Summary.Improvement}}</span>
				</div>
			</div>
		</section>

		{{- if .Suggestions }}
		<section>
			<h2>Suggestions</h2>
			<ul class="suggestion-list">
				{{- range .Suggestions }}
				<li class="{{.SeverityClass}}">
					<h3>[{{.Severity}}] {{.Title}}</h3>
					<p>{{.Description}}</p>
					<p>{{.Recommendation}}</p>
					<p><em>{{.Impact}}</em></p>
				</li>
				{{- end }}
			</ul>
		</section>
		{{- end }}

		<section>
			<h2>Plan</h2>
			{{- template "node" .Root }}
		</section>
	</main>
</body>
</html>
{{- define "node" }}
<div class="node-card">
	<div class="node-label">{{.Label}}</div>
	<div class="node-metrics">{{.Cost}} · {{.Timing}}</div>
</div>
{{- if .Children }}
<div class="node-children">
	{{- range .Children }}
	{{- template "node" . }}
	{{- end }}
</div>
{{- end }}
{{- end }}
`
