// Command caselawctl runs case-law and act searches from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"CaseLawSearch/internal/app"
	"CaseLawSearch/internal/config"
	"CaseLawSearch/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "caselawctl",
		Short:         "Search Indian case law and statutes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	build := func() (*app.Application, error) {
		cfg := config.Load()
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		return app.New(cfg, logging.NewWithWriter(os.Stderr, level))
	}

	root.AddCommand(searchCommand(build), actsCommand(build))
	return root
}
