// Package main provides the CLI entry point for metamap.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/metabolite-tools/metamap-go/pkg/metamap"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/chem"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/logging"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/models"
	"github.com/metabolite-tools/metamap-go/pkg/metamap/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath  string
	reportPath  string
	metricsPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "metamap INPUT [OUTPUT]",
		Short: "Derive molecular formulas from SMILES and map metabolite names",
		Long: `metamap adds a Formula column derived from the SMILES column of every sheet
of an Excel workbook, then fills a Metabolite name column on every sheet by
exact formula match against the reference sheet.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE:         run,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML configuration file")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.String("log-format", logging.FormatAuto, "Log format: auto, console, json")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("reference", "Sheet1", "Name of the reference sheet")

	f := rootCmd.Flags()
	f.Bool("no-backup", false, "Do not write a backup copy of the input file")
	f.Int("workers", 1, "Parallel formula derivations per sheet")
	f.Int("cache-size", 10000, "Distinct structures remembered per run (0 disables)")
	f.String("marker", "", "Value written for formulas without a name")
	f.StringSlice("exclude", nil, "Sheets to leave untouched")
	f.StringVar(&reportPath, "report", "", "Write the statistics report to a .json, .yaml or .yml file")
	f.StringVar(&metricsPath, "metrics-file", "", "Write the statistics as a Prometheus textfile")

	rootCmd.AddCommand(newInspectCmd(), newFormulaCmd(), newDiffCmd())
	return rootCmd
}

// setup resolves the options and builds the logger for a command.
func setup(cmd *cobra.Command) (metamap.Options, *zap.Logger, error) {
	opts, err := metamap.LoadOptions(configPath, cmd.Flags())
	if err != nil {
		return metamap.Options{}, nil, err
	}
	log, err := logging.New(opts.Log)
	if err != nil {
		return metamap.Options{}, nil, err
	}
	return opts, log, nil
}

func run(cmd *cobra.Command, args []string) error {
	opts, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	inputPath := args[0]
	outputPath := ""
	if len(args) == 2 {
		outputPath = args[1]
	}

	report, err := metamap.Run(cmd.Context(), inputPath, outputPath, opts, metamap.WithLogger(log))
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return err
	}

	if err := output.WriteSummary(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if reportPath != "" {
		if err := output.WriteReport(reportPath, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if metricsPath != "" {
		if err := output.WriteMetrics(metricsPath, report); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func newInspectCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:          "inspect FILE",
		Short:        "Describe the sheets of a workbook without modifying it",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			infos, err := metamap.Inspect(args[0], opts)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), infos)
			}
			return printInfos(cmd.OutOrStdout(), infos, opts.ReferenceSheet)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newFormulaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formula SMILES...",
		Short: "Print the molecular formula of each SMILES string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SMILES\tFORMULA\tSTATUS")
			var d chem.SMILESDeriver
			for _, s := range args {
				res := d.Derive(s)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s, res.Value(), res.Status)
			}
			return tw.Flush()
		},
	}
}

func newDiffCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:          "diff FIRST SECOND",
		Short:        "Compare the sheets and columns of two workbooks",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := metamap.CompareFiles(args[0], args[1])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), cmp)
			}
			return printComparison(cmd.OutOrStdout(), cmp)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := output.ToJSON(v, true)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printInfos(w io.Writer, infos []models.SheetInfo, reference string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SHEET\tROWS\tCOLUMNS\tRANGE\tCELLS\tSMILES COLUMN\tREFERENCE")
	for _, info := range infos {
		structure := info.StructureColumn
		if structure == "" {
			structure = "-"
		}
		ref := "-"
		switch {
		case info.Name == reference && info.HasReferenceColumns:
			ref = "yes"
		case info.Name == reference:
			ref = "missing columns"
		case info.HasReferenceColumns:
			ref = "candidate"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%s\t%s\n",
			info.Name, info.Rows, len(info.Columns), info.Range, info.NonEmpty, structure, ref)
	}
	return tw.Flush()
}

func printComparison(w io.Writer, cmp models.Comparison) error {
	if len(cmp.OnlyInFirst) > 0 {
		fmt.Fprintf(w, "Only in first:  %s\n", strings.Join(cmp.OnlyInFirst, ", "))
	}
	if len(cmp.OnlyInSecond) > 0 {
		fmt.Fprintf(w, "Only in second: %s\n", strings.Join(cmp.OnlyInSecond, ", "))
	}
	for _, s := range cmp.Sheets {
		fmt.Fprintf(w, "%s: %d -> %d rows\n", s.Name, s.RowsBefore, s.RowsAfter)
		if len(s.AddedColumns) > 0 {
			fmt.Fprintf(w, "  + %s\n", strings.Join(s.AddedColumns, ", "))
		}
		if len(s.RemovedColumns) > 0 {
			fmt.Fprintf(w, "  - %s\n", strings.Join(s.RemovedColumns, ", "))
		}
	}
	return nil
}
