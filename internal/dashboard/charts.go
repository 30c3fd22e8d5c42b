package dashboard

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"FearIndex/internal/calculator"
	"FearIndex/internal/model"
)

const (
	chartWidth  = 1100
	chartHeight = 420
)

var errNoSeries = errors.New("no series selected")

var (
	colorRatio = drawing.ColorFromHex("1f77b4")
	colorMA    = drawing.ColorFromHex("ff7f0e")
	colorBand  = drawing.ColorFromHex("7f7f7f")
	colorA     = drawing.ColorFromHex("d62728")
	colorB     = drawing.ColorFromHex("2ca02c")
)

func lineStyle(col drawing.Color, width float64, dashed bool) chart.Style {
	st := chart.Style{StrokeColor: col, StrokeWidth: width}
	if dashed {
		st.StrokeDashArray = []float64{5, 4}
	}
	return st
}

// RenderRatioChart draws the ratio with its moving average and bands as
// selected by toggles.
func RenderRatioChart(w io.Writer, ds *model.Dataset, toggles model.Toggles) error {
	series := []chart.Series{
		timeSeries("Ratio", ds.Rows, func(r model.Row) model.NullFloat { return model.Some(r.Ratio) }, lineStyle(colorRatio, 2, false)),
	}
	if toggles.MovingAverage {
		name := fmt.Sprintf("MA %d", ds.MAWindow)
		series = appendDefined(series, timeSeries(name, ds.Rows, func(r model.Row) model.NullFloat { return r.MovingAverage }, lineStyle(colorMA, 1.5, false)))
	}
	if toggles.Bands {
		series = appendDefined(series,
			timeSeries("Upper band", ds.Rows, func(r model.Row) model.NullFloat { return r.BollingerUpper }, lineStyle(colorBand, 1, true)),
			timeSeries("Lower band", ds.Rows, func(r model.Row) model.NullFloat { return r.BollingerLower }, lineStyle(colorBand, 1, true)),
		)
	}
	title := fmt.Sprintf("%s/%s ratio (x%.0f)", ds.LabelA, ds.LabelB, calculator.RatioScale)
	return renderChart(w, title, "Ratio", series)
}

// RenderIndicesChart draws the two input series. B is rescaled by
// mean(A)/mean(B) so both fit one axis.
func RenderIndicesChart(w io.Writer, ds *model.Dataset, toggles model.Toggles) error {
	var series []chart.Series
	if toggles.ShowA {
		series = append(series, timeSeries(ds.LabelA, ds.Rows,
			func(r model.Row) model.NullFloat { return model.Some(r.A) }, lineStyle(colorA, 1.5, false)))
	}
	if toggles.ShowB {
		scale := normalisation(ds.Rows)
		series = append(series, timeSeries(ds.LabelB+" (normalised)", ds.Rows,
			func(r model.Row) model.NullFloat { return model.Some(r.B * scale) }, lineStyle(colorB, 1.5, false)))
	}
	if len(series) == 0 {
		return errNoSeries
	}
	return renderChart(w, fmt.Sprintf("%s and %s", ds.LabelA, ds.LabelB), "Value", series)
}

// normalisation returns mean(A)/mean(B), or 1 when B averages to zero.
func normalisation(rows []model.Row) float64 {
	var sumA, sumB float64
	for _, r := range rows {
		sumA += r.A
		sumB += r.B
	}
	if sumB == 0 {
		return 1
	}
	return sumA / sumB
}

func timeSeries(name string, rows []model.Row, value func(model.Row) model.NullFloat, st chart.Style) chart.TimeSeries {
	ts := chart.TimeSeries{Name: name, Style: st}
	for _, r := range rows {
		v := value(r)
		if !v.Valid {
			continue
		}
		ts.XValues = append(ts.XValues, r.Time)
		ts.YValues = append(ts.YValues, v.Float64)
	}
	// go-chart needs at least two X values
	if len(ts.XValues) == 1 {
		ts.XValues = append(ts.XValues, ts.XValues[0].Add(24*time.Hour))
		ts.YValues = append(ts.YValues, ts.YValues[0])
	}
	return ts
}

func appendDefined(series []chart.Series, add ...chart.TimeSeries) []chart.Series {
	for _, ts := range add {
		if len(ts.XValues) > 0 {
			series = append(series, ts)
		}
	}
	return series
}

func renderChart(w io.Writer, title, yName string, series []chart.Series) error {
	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:      chart.YAxis{Name: yName},
		Series:     series,
	}
	if r := flatRange(series); r != nil {
		ch.YAxis.Range = r
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// flatRange returns a padded range when every value is equal, since the
// y axis must not have zero height. It returns nil otherwise.
func flatRange(series []chart.Series) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		ts, ok := s.(chart.TimeSeries)
		if !ok {
			continue
		}
		for _, v := range ts.YValues {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) || hi > lo {
		return nil
	}
	pad := math.Max(math.Abs(lo)*0.05, 1e-6)
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
