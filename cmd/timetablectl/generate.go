package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-api/internal/cli"
	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/service"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type generateOptions struct {
	branch      string
	division    string
	seed        int64
	format      string
	out         string
	skipLibrary bool
	skipProject bool
	weekOf      string
	weeks       int
}

func newGenerateCommand(global *globalOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a timetable and print or export it",
		Example: `  timetablectl generate --branch aiml --division div-b --seed 42
  timetablectl generate --format pdf --out timetable.pdf
  timetablectl generate --format ics --week-of 2024-09-02 --weeks 14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			req := dto.GenerateTimetableRequest{
				Branch:      opts.branch,
				Division:    opts.division,
				SkipLibrary: opts.skipLibrary,
				SkipProject: opts.skipProject,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &opts.seed
			}

			switch opts.format {
			case formatTable, formatJSON:
				resp, err := a.Timetable.Generate(cmd.Context(), req)
				if err != nil {
					return err
				}
				return writeTimetable(cmd.OutOrStdout(), opts.format, resp, a.Timetable.Legend())
			default:
				file, err := a.Timetable.Export(cmd.Context(), dto.ExportTimetableRequest{
					GenerateTimetableRequest: req,
					Format:                   opts.format,
					WeekOf:                   opts.weekOf,
					Weeks:                    opts.weeks,
				})
				if err != nil {
					return err
				}
				return writeExport(cmd, opts.out, file)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.branch, "branch", "b", "computer-eng", "Branch to generate for")
	flags.StringVarP(&opts.division, "division", "d", "div-a", "Division to generate for")
	flags.Int64VarP(&opts.seed, "seed", "s", 0, "Seed for a reproducible layout (random when omitted)")
	flags.StringVarP(&opts.format, "format", "f", formatTable,
		fmt.Sprintf("Output format: %s, %s, %s, %s, %s or %s", formatTable, formatJSON, service.FormatCSV, service.FormatPDF, service.FormatXLSX, service.FormatICS))
	flags.StringVarP(&opts.out, "out", "o", "", "Export destination; defaults to the generated file name, - for stdout")
	flags.BoolVar(&opts.skipLibrary, "skip-library", false, "Leave out the fixed library periods")
	flags.BoolVar(&opts.skipProject, "skip-project", false, "Leave out the fixed project periods")
	flags.StringVar(&opts.weekOf, "week-of", "", "First teaching week for ics exports (YYYY-MM-DD)")
	flags.IntVar(&opts.weeks, "weeks", 0, "Weekly repetitions for ics exports")
	return cmd
}

func writeTimetable(w io.Writer, format string, resp *dto.TimetableResponse, legend []dto.LegendEntry) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if _, err := fmt.Fprintln(w, cli.RenderTimetable(resp)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, cli.RenderLegend(legend))
	return err
}

func writeExport(cmd *cobra.Command, out string, file *dto.ExportFile) error {
	if out == "-" {
		_, err := cmd.OutOrStdout().Write(file.Body)
		return err
	}
	if out == "" {
		out = file.Filename
	}
	if err := os.WriteFile(out, file.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, seed %d)\n", out, len(file.Body), file.Seed)
	return nil
}
