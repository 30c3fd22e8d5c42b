package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"FearIndex/internal/report"
)

var (
	reportStart string
	reportEnd   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print latest values, statistics and band position",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Start date YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "End date YYYY-MM-DD")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	params, err := a.params(reportStart, reportEnd)
	if err != nil {
		return err
	}
	ds, err := a.collector.Collect(cmd.Context(), params)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), report.FormatReport(ds))
	return err
}
