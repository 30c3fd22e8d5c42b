package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"FearIndex/internal/exporter"
)

var (
	exportStart  string
	exportEnd    string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Compute the ratio series and write it as CSV",
	Long: `Compute the ratio series for a date range and write it as CSV.
Without --output the file is named after the range, e.g.
vix_sp500_ratio_2020-01-01_to_2024-12-31.csv. Use --output - for stdout.

Examples:
  fearindex export
  fearindex export --start 2020-01-01 --end 2024-12-31
  fearindex export --output - > ratio.csv`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportStart, "start", "", "Start date YYYY-MM-DD (default: analysis.default_years ago)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "End date YYYY-MM-DD (default: today)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output file, directory, or - for stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	params, err := a.params(exportStart, exportEnd)
	if err != nil {
		return err
	}
	ds, err := a.collector.Collect(cmd.Context(), params)
	if err != nil {
		return err
	}

	if exportOutput == "-" {
		return exporter.WriteCSV(cmd.OutOrStdout(), ds)
	}

	path := exportOutput
	if path == "" {
		path = exporter.Filename(ds)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, exporter.Filename(ds))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := exporter.WriteCSV(f, ds); err != nil {
		return err
	}

	log.Info().Str("file", path).Int("rows", len(ds.Rows)).Msg("csv exported")
	return nil
}
