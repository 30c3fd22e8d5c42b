// Package exporter writes computed datasets as CSV.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"FearIndex/internal/model"
)

const columns = 8

// Header returns the CSV header for ds. The moving average column name
// embeds the window, e.g. ratio_ma_20.
func Header(ds *model.Dataset) []string {
	return []string{
		"date",
		column(ds.LabelA, ds.SymbolA),
		column(ds.LabelB, ds.SymbolB),
		"ratio",
		fmt.Sprintf("ratio_ma_%d", ds.MAWindow),
		"bb_middle",
		"bb_upper",
		"bb_lower",
	}
}

// Filename returns the download name for ds, e.g.
// vix_sp500_ratio_2020-01-01_to_2024-12-31.csv.
func Filename(ds *model.Dataset) string {
	return fmt.Sprintf("%s_%s_ratio_%s_to_%s.csv",
		column(ds.LabelA, ds.SymbolA), column(ds.LabelB, ds.SymbolB),
		ds.Start.Format(model.DateLayout), ds.End.Format(model.DateLayout))
}

// WriteCSV writes every row of ds to w. Floats keep full precision and
// undefined values become empty cells.
func WriteCSV(w io.Writer, ds *model.Dataset) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header(ds)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	record := make([]string, columns)
	for i, r := range ds.Rows {
		record[0] = r.Time.Format(model.DateLayout)
		record[1] = formatFloat(r.A)
		record[2] = formatFloat(r.B)
		record[3] = formatFloat(r.Ratio)
		record[4] = r.MovingAverage.String()
		record[5] = r.BollingerMiddle.String()
		record[6] = r.BollingerUpper.String()
		record[7] = r.BollingerLower.String()
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	log.Debug().Str("run_id", ds.RunID).Int("record_count", len(ds.Rows)).Msg("csv written")
	return nil
}

// ReadCSV parses a file produced by WriteCSV back into rows.
func ReadCSV(r io.Reader) ([]model.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columns

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header")
	}
	if records[0][0] != "date" || records[0][3] != "ratio" {
		return nil, fmt.Errorf("unexpected csv header %v", records[0])
	}

	rows := make([]model.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string) (model.Row, error) {
	var row model.Row
	t, err := time.Parse(model.DateLayout, rec[0])
	if err != nil {
		return row, err
	}
	row.Time = t

	for i, dst := range []*float64{&row.A, &row.B, &row.Ratio} {
		v, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return row, err
		}
		*dst = v
	}
	for i, dst := range []*model.NullFloat{&row.MovingAverage, &row.BollingerMiddle, &row.BollingerUpper, &row.BollingerLower} {
		if rec[i+4] == "" {
			continue
		}
		v, err := strconv.ParseFloat(rec[i+4], 64)
		if err != nil {
			return row, err
		}
		*dst = model.Some(v)
	}
	return row, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func column(label, symbol string) string {
	name := label
	if name == "" {
		name = strings.TrimPrefix(symbol, "^")
	}
	return strings.ToLower(name)
}
