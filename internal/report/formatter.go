// Package report renders a dataset as a plain-text summary for the CLI.
package report

import (
	"fmt"
	"strings"
	"time"

	"FearIndex/internal/model"
)

// FormatReport formats the latest metrics, summary statistics, band
// position and percentile table.
func FormatReport(ds *model.Dataset) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s/%s ratio report | %s to %s\n\n", ds.LabelA, ds.LabelB,
		ds.Start.Format(model.DateLayout), ds.End.Format(model.DateLayout))

	// Latest values
	b.WriteString(formatChange(ds.LabelA, ds.Latest.A))
	b.WriteString(formatChange(ds.LabelB, ds.Latest.B))
	b.WriteString(formatChange("Ratio", ds.Latest.Ratio))
	b.WriteString("\n")

	// Summary statistics
	s := ds.Summary
	b.WriteString("Statistics:\n")
	fmt.Fprintf(&b, "  Count:   %d\n", s.Count)
	fmt.Fprintf(&b, "  Mean:    %.4f\n", s.Mean)
	fmt.Fprintf(&b, "  Median:  %.4f\n", s.Median)
	fmt.Fprintf(&b, "  Std Dev: %.4f\n", s.StdDev)
	fmt.Fprintf(&b, "  Min:     %.4f\n", s.Min)
	fmt.Fprintf(&b, "  Max:     %.4f\n\n", s.Max)

	b.WriteString("Percentiles:\n")
	for _, p := range s.Percentiles {
		fmt.Fprintf(&b, "  P%-3.0f %.4f\n", p.Percentile, p.Value)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Latest ratio %.4f is at the %.1fth percentile\n", s.Latest, s.LatestRank)
	fmt.Fprintf(&b, "Band position: %s", ds.BandState)
	if last := ds.LastRow(); last.BollingerUpper.Valid {
		fmt.Fprintf(&b, " (%.4f .. %.4f, k=%.1f, period %d)",
			last.BollingerLower.Float64, last.BollingerUpper.Float64, ds.BandK, ds.BandPeriod)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Source: %s %s, %s | computed %s | run %s\n",
		ds.Source, ds.SymbolA, ds.SymbolB, ds.ComputedAt.Format(time.DateTime), ds.RunID)
	return b.String()
}

func formatChange(name string, c model.Change) string {
	switch {
	case !c.Delta.Valid:
		return fmt.Sprintf("%-8s %.2f\n", name+":", c.Current)
	case !c.DeltaPct.Valid:
		return fmt.Sprintf("%-8s %.2f (%+.2f)\n", name+":", c.Current, c.Delta.Float64)
	}
	return fmt.Sprintf("%-8s %.2f (%+.2f, %+.2f%%)\n", name+":", c.Current, c.Delta.Float64, c.DeltaPct.Float64)
}
