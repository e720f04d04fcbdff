package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/config"
	"github.com/sqltrace/sqltrace/internal/model"
	"github.com/sqltrace/sqltrace/internal/parser"
	"github.com/sqltrace/sqltrace/internal/plantree"
	"github.com/sqltrace/sqltrace/internal/render/html"
	"github.com/sqltrace/sqltrace/internal/render/text"
	"github.com/sqltrace/sqltrace/internal/validator"
)

var flagExpandAll bool

var explainCmd = &cobra.Command{
	Use:   "explain <query>",
	Short: "Run EXPLAIN ANALYZE and print the plan tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		if err := validator.ValidateSelect(query); err != nil {
			return err
		}

		eng, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer eng.Close()

		plan, err := eng.ExplainQuery(cmd.Context(), query)
		if err != nil {
			return err
		}

		policy := plantree.DefaultPolicy()
		policy.ExpandAll = flagExpandAll
		tree, err := plantree.Build(plan, policy)
		if err != nil {
			return err
		}
		return text.Tree(os.Stdout, tree)
	},
}

var (
	flagReportFormat string
	flagReportFile   string
)

var reportCmd = &cobra.Command{
	Use:   "report [query]",
	Short: "Print the advisor report for a query or a saved plan file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := reportPlan(cmd, args)
		if err != nil {
			return err
		}

		analysis := advisor.New(config.Active().Advisor).Analyze(plan)
		switch flagReportFormat {
		case "markdown":
			_, err = os.Stdout.WriteString(text.AnalysisMarkdown(analysis))
			return err
		case "html":
			return html.Render(os.Stdout, plan, analysis, html.Options{IncludeStyles: true})
		default:
			return fmt.Errorf("unknown report format %q (markdown, html)", flagReportFormat)
		}
	},
}

// reportPlan resolves the plan to analyze: a saved EXPLAIN JSON file when
// --file is set, otherwise a live EXPLAIN ANALYZE of the query argument.
func reportPlan(cmd *cobra.Command, args []string) (*model.ExecutionPlan, error) {
	if flagReportFile != "" {
		f, err := os.Open(flagReportFile)
		if err != nil {
			return nil, fmt.Errorf("open plan file: %w", err)
		}
		defer f.Close()
		return parser.ParseJSON(f)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("a query argument is required unless --file is given")
	}
	query := args[0]
	if err := validator.ValidateSelect(query); err != nil {
		return nil, err
	}

	eng, err := openEngine(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	return eng.ExplainQuery(cmd.Context(), query)
}

func init() {
	explainCmd.Flags().BoolVar(&flagExpandAll, "expand-all", false, "expand every node of the tree")
	reportCmd.Flags().StringVar(&flagReportFormat, "format", "markdown", "report format (markdown, html)")
	reportCmd.Flags().StringVar(&flagReportFile, "file", "", "read a saved EXPLAIN JSON file instead of querying")
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(reportCmd)
}
