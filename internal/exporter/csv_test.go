package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FearIndex/internal/calculator"
	"FearIndex/internal/model"
)

func testDataset(t *testing.T, n int) *model.Dataset {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]model.RatioRow, n)
	for i := range series {
		a := 13.1 + float64(i%7)*0.37
		b := 4700.25 + float64(i)*3.3
		series[i] = model.RatioRow{
			AlignedRow: model.AlignedRow{Time: start.AddDate(0, 0, i), A: a, B: b},
			Ratio:      a / b * calculator.RatioScale,
		}
	}
	rows, err := calculator.Rolling(series, calculator.DefaultRollingOptions())
	require.NoError(t, err)
	return &model.Dataset{
		SymbolA:  "^VIX",
		SymbolB:  "^GSPC",
		LabelA:   "VIX",
		LabelB:   "SP500",
		Start:    start,
		End:      start.AddDate(0, 0, n-1),
		MAWindow: 20,
		Rows:     rows,
	}
}

func TestHeaderAndFilename(t *testing.T) {
	ds := testDataset(t, 3)
	assert.Equal(t,
		[]string{"date", "vix", "sp500", "ratio", "ratio_ma_20", "bb_middle", "bb_upper", "bb_lower"},
		Header(ds))
	assert.Equal(t, "vix_sp500_ratio_2024-01-01_to_2024-01-03.csv", Filename(ds))

	ds.LabelA, ds.LabelB = "", ""
	assert.Equal(t, "vix", Header(ds)[1])
	assert.Equal(t, "gspc", Header(ds)[2])
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	ds := testDataset(t, 45)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 46)
	assert.Equal(t, "date,vix,sp500,ratio,ratio_ma_20,bb_middle,bb_upper,bb_lower", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",,,,"), "undefined values are empty cells")

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, len(ds.Rows))
	for i := range rows {
		assert.Equal(t, ds.Rows[i], rows[i], "row %d", i)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,b,c,d,e,f,g,h\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("date,vix,sp500,ratio,ratio_ma_20,bb_middle,bb_upper,bb_lower\nnot-a-date,1,2,3,,,,\n"))
	assert.Error(t, err)
}
