package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "timetablectl:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "timetablectl",
		Short:         "Generate and export weekly timetables",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")
	cmd.PersistentFlags().StringVar(&opts.rosterFile, "roster-file", "", "Read the roster from this YAML file instead of ROSTER_SOURCE")

	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newLegendCommand())
	cmd.AddCommand(newRosterCommand(opts))
	return cmd
}
