package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/timetable-api/internal/cli"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/internal/timetable"
	"github.com/noah-isme/timetable-api/pkg/config"
)

func newLegendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "legend",
		Short: "Print the session kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := service.NewTimetableService(nil, nil, nil, nil, config.SchedulerConfig{}, config.ExportConfig{})
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderLegend(svc.Legend()))
			return nil
		},
	}
}

func newRosterCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect or import the roster",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active roster as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			plan, _, err := a.Roster.Plan(cmd.Context())
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(plan)
		},
	})

	var file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the database roster with a YAML roster file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			plan, err := service.ParsePlanYAML(raw)
			if err != nil {
				return err
			}

			a, err := buildApp(cmd.Context(), &globalOptions{logLevel: global.logLevel})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Roster.ImportPlan(cmd.Context(), plan); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "imported %d roster entries\n", len(plan.Entries))
			return nil
		},
	}
	importCmd.Flags().StringVar(&file, "file", "", "YAML roster file")
	_ = importCmd.MarkFlagRequired("file")
	cmd.AddCommand(importCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "template",
		Short: "Print the built-in roster as a starting point for a roster file",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(timetable.DefaultPlan())
		},
	})
	return cmd
}
