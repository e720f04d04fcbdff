package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/bench"
	"github.com/sqltrace/sqltrace/internal/config"
	"github.com/sqltrace/sqltrace/internal/render/text"
	"github.com/sqltrace/sqltrace/internal/validator"
)

var (
	flagRuns    int
	flagWarmup  int
	flagNoPlans bool

	flagLabelA string
	flagLabelB string
)

func benchmarkConfig() config.BenchmarkConfig {
	cfg := config.Active().Benchmark
	if flagRuns > 0 {
		cfg.BenchmarkRuns = flagRuns
	}
	if flagWarmup >= 0 {
		cfg.WarmupRuns = flagWarmup
	}
	if flagNoPlans {
		cfg.IncludePlans = false
	}
	return cfg
}

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark <query>",
	Short: "Time repeated executions of a query and summarize the runs",
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

		adv := advisor.New(config.Active().Advisor)
		suite, err := bench.NewSuite(eng, adv, benchmarkConfig(), logger)
		if err != nil {
			return err
		}
		result, err := suite.BenchmarkQuery(cmd.Context(), query)
		if err != nil {
			return err
		}

		_, err = os.Stdout.WriteString(text.BenchmarkMarkdown(result))
		return err
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <query-a> <query-b>",
	Short: "Benchmark two queries and compare the results",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, q := range args {
			if err := validator.ValidateSelect(q); err != nil {
				return err
			}
		}

		eng, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer eng.Close()

		adv := advisor.New(config.Active().Advisor)
		suite, err := bench.NewSuite(eng, adv, benchmarkConfig(), logger)
		if err != nil {
			return err
		}

		resultA, err := suite.BenchmarkQuery(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		resultB, err := suite.BenchmarkQuery(cmd.Context(), args[1])
		if err != nil {
			return err
		}

		comparison := bench.Compare(resultA, resultB, flagLabelA, flagLabelB)
		_, err = os.Stdout.WriteString(text.ComparisonMarkdown(&comparison))
		return err
	},
}

func init() {
	benchmarkCmd.Flags().IntVar(&flagRuns, "runs", 0, "measured runs (0 uses the configured default)")
	benchmarkCmd.Flags().IntVar(&flagWarmup, "warmup", -1, "warmup runs (-1 uses the configured default)")
	benchmarkCmd.Flags().BoolVar(&flagNoPlans, "no-plans", false, "skip capturing execution plans per run")

	compareCmd.Flags().IntVar(&flagRuns, "runs", 0, "measured runs (0 uses the configured default)")
	compareCmd.Flags().IntVar(&flagWarmup, "warmup", -1, "warmup runs (-1 uses the configured default)")
	compareCmd.Flags().StringVar(&flagLabelA, "label-a", "Query A", "label for the first query")
	compareCmd.Flags().StringVar(&flagLabelB, "label-b", "Query B", "label for the second query")

	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(compareCmd)
}
