// Package cli implements the sqltrace command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/sqltrace/sqltrace/internal/config"
	"github.com/sqltrace/sqltrace/internal/engine"
)

var (
	flagDatabaseURL string
	flagConfigPath  string
	flagVerbose     bool

	logger log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "sqltrace",
	Short:         "Analyze and benchmark SQL query execution plans",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(flagVerbose)
		path := flagConfigPath
		if path == "" {
			path = os.Getenv("SQLTRACE_CONFIG")
		}
		if err := config.Apply(path); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDatabaseURL, "database-url", "",
		"database connection string (defaults to $DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "",
		"path to a JSON config file (defaults to $SQLTRACE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sqltrace:", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if verbose {
		l = level.NewFilter(l, level.AllowDebug())
	} else {
		l = level.NewFilter(l, level.AllowInfo())
	}
	return log.With(l, "ts", log.DefaultTimestampUTC)
}

func databaseURL() (string, error) {
	if flagDatabaseURL != "" {
		return flagDatabaseURL, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", errors.New("no database configured: pass --database-url or set $DATABASE_URL")
}

func openEngine(ctx context.Context) (engine.Engine, error) {
	url, err := databaseURL()
	if err != nil {
		return nil, err
	}
	return engine.New(ctx, url, logger)
}
