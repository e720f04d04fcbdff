package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/config"
	"github.com/sqltrace/sqltrace/internal/engine"
	"github.com/sqltrace/sqltrace/internal/monitoring"
	"github.com/sqltrace/sqltrace/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng, err := openEngine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		if err := eng.TestConnection(ctx); err != nil {
			return err
		}

		addr := flagAddr
		if addr == "" {
			addr = config.Active().Server.Addr
		}
		srv := server.New(eng, advisor.New(config.Active().Advisor), monitoring.New(), logger)
		return srv.ListenAndServe(ctx, addr)
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List sample queries for the configured engine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		typ, err := engine.Detect(url)
		if err != nil {
			return err
		}
		for _, sample := range engine.SamplesFor(typ) {
			fmt.Printf("%s (%s)\n  %s\n  %s\n\n", sample.Name, sample.Category, sample.Description, sample.Query)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (defaults to the configured server address)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(samplesCmd)
}
